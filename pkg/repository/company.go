package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-pkgz/lgr"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/espiscope/pkg/domain"
)

// CompanyRepository keeps tracked companies with their message audit trail and announcement history.
// Every write is a single transaction, so a company and its history are added and removed together.
type CompanyRepository struct {
	db *sqlx.DB
}

// companySQL represents a company row
type companySQL struct {
	Seq       int64  `db:"seq"`
	ID        string `db:"id"`
	Name      string `db:"name"`
	Emoji     string `db:"emoji"`
	SourceRef string `db:"source_ref"`
}

// messageSQL represents a message row
type messageSQL struct {
	CompanyID string `db:"company_id"`
	MessageID string `db:"message_id"`
	Content   string `db:"content"`
	Pinned    bool   `db:"pinned"`
}

// historySQL represents an announcement row
type historySQL struct {
	Seq       int64  `db:"seq"`
	CompanyID string `db:"company_id"`
	Date      string `db:"date"`
	Time      string `db:"time"`
	Company   string `db:"company"`
	Title     string `db:"title"`
	URL       string `db:"url"`
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Companies returns all tracked companies in the order they were added. A row failing validation is
// reported and skipped, the company can still be removed by id.
func (r *CompanyRepository) Companies(ctx context.Context) ([]domain.Company, error) {
	var rows []companySQL
	if err := r.db.SelectContext(ctx, &rows, "SELECT seq, id, name, emoji, source_ref FROM companies ORDER BY seq"); err != nil {
		return nil, fmt.Errorf("get companies: %w", err)
	}

	var msgs []messageSQL
	if err := r.db.SelectContext(ctx, &msgs, "SELECT company_id, message_id, content, pinned FROM messages ORDER BY seq"); err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	byCompany := make(map[string][]domain.MessageRef, len(rows))
	for _, m := range msgs {
		byCompany[m.CompanyID] = append(byCompany[m.CompanyID], m.toDomain())
	}

	res := make([]domain.Company, 0, len(rows))
	for _, row := range rows {
		c := row.toDomain()
		c.Messages = byCompany[c.ID]
		if err := c.Validate(); err != nil {
			lgr.Printf("[ERROR] %v: companies row %d: %v", domain.ErrStoreCorrupted, row.Seq, err)
			continue
		}
		res = append(res, c)
	}
	return res, nil
}

// Company returns a tracked company with its messages, ErrNotTracked if there is no such company
func (r *CompanyRepository) Company(ctx context.Context, id string) (domain.Company, error) {
	return getCompany(ctx, r.db, id)
}

// History returns stored announcements of the company. A row failing validation makes the whole
// history unusable and ErrStoreCorrupted is returned.
func (r *CompanyRepository) History(ctx context.Context, id string) ([]domain.Announcement, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT COUNT(*) FROM companies WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("check company %s: %w", id, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("history of %s: %w", id, domain.ErrNotTracked)
	}

	var rows []historySQL
	query := "SELECT seq, company_id, date, time, company, title, url FROM history WHERE company_id = ? ORDER BY seq"
	if err := r.db.SelectContext(ctx, &rows, query, id); err != nil {
		return nil, fmt.Errorf("get history of %s: %w", id, err)
	}

	res := make([]domain.Announcement, 0, len(rows))
	for _, row := range rows {
		a := row.toDomain()
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("%w: history of %s, row %d: %w", domain.ErrStoreCorrupted, id, row.Seq, err)
		}
		res = append(res, a)
	}
	return res, nil
}

// AddCompany inserts company, its messages and seeded history at once, ErrAlreadyTracked if the id exists
func (r *CompanyRepository) AddCompany(ctx context.Context, c domain.Company, history []domain.Announcement) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("add company: %w", err)
	}
	return withRetry(ctx, func() error {
		return r.inTx(ctx, func(tx *sqlx.Tx) error {
			_, err := tx.NamedExecContext(ctx,
				`INSERT INTO companies (id, name, emoji, source_ref) VALUES (:id, :name, :emoji, :source_ref)`,
				companySQL{ID: c.ID, Name: c.Name, Emoji: c.Emoji, SourceRef: c.SourceRef})
			if isUniqueError(err) {
				return fmt.Errorf("add company %s: %w", c.ID, domain.ErrAlreadyTracked)
			}
			if err != nil {
				return fmt.Errorf("add company %s: %w", c.ID, err)
			}
			if err := insertMessages(ctx, tx, c.ID, c.Messages); err != nil {
				return err
			}
			return insertHistory(ctx, tx, c.ID, history)
		})
	})
}

// RemoveCompany deletes company with its messages and history and returns the removed record
func (r *CompanyRepository) RemoveCompany(ctx context.Context, id string) (domain.Company, error) {
	var removed domain.Company
	err := withRetry(ctx, func() error {
		return r.inTx(ctx, func(tx *sqlx.Tx) error {
			c, err := getCompany(ctx, tx, id)
			if err != nil {
				return err
			}
			for _, q := range []string{
				"DELETE FROM messages WHERE company_id = ?",
				"DELETE FROM history WHERE company_id = ?",
				"DELETE FROM companies WHERE id = ?",
			} {
				if _, err := tx.ExecContext(ctx, q, id); err != nil {
					return fmt.Errorf("remove company %s: %w", id, err)
				}
			}
			removed = c
			return nil
		})
	})
	if err != nil {
		return domain.Company{}, err
	}
	return removed, nil
}

// CommitDiff appends delivered announcements and their messages to the company records
func (r *CompanyRepository) CommitDiff(ctx context.Context, id string, appended []domain.Announcement, msgs []domain.MessageRef) error {
	if len(appended) == 0 && len(msgs) == 0 {
		return nil
	}
	return withRetry(ctx, func() error {
		return r.inTx(ctx, func(tx *sqlx.Tx) error {
			var exists int
			if err := tx.GetContext(ctx, &exists, "SELECT COUNT(*) FROM companies WHERE id = ?", id); err != nil {
				return fmt.Errorf("check company %s: %w", id, err)
			}
			if exists == 0 {
				return fmt.Errorf("commit diff of %s: %w", id, domain.ErrNotTracked)
			}
			if err := insertHistory(ctx, tx, id, appended); err != nil {
				return err
			}
			return insertMessages(ctx, tx, id, msgs)
		})
	})
}

// ReplaceHistory overwrites company history, used to reseed a corrupted one
func (r *CompanyRepository) ReplaceHistory(ctx context.Context, id string, history []domain.Announcement) error {
	return withRetry(ctx, func() error {
		return r.inTx(ctx, func(tx *sqlx.Tx) error {
			var exists int
			if err := tx.GetContext(ctx, &exists, "SELECT COUNT(*) FROM companies WHERE id = ?", id); err != nil {
				return fmt.Errorf("check company %s: %w", id, err)
			}
			if exists == 0 {
				return fmt.Errorf("replace history of %s: %w", id, domain.ErrNotTracked)
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM history WHERE company_id = ?", id); err != nil {
				return fmt.Errorf("clear history of %s: %w", id, err)
			}
			return insertHistory(ctx, tx, id, history)
		})
	})
}

func (r *CompanyRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func getCompany(ctx context.Context, q sqlx.QueryerContext, id string) (domain.Company, error) {
	var row companySQL
	err := sqlx.GetContext(ctx, q, &row, "SELECT seq, id, name, emoji, source_ref FROM companies WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Company{}, fmt.Errorf("company %s: %w", id, domain.ErrNotTracked)
	}
	if err != nil {
		return domain.Company{}, fmt.Errorf("get company %s: %w", id, err)
	}

	var msgs []messageSQL
	query := "SELECT company_id, message_id, content, pinned FROM messages WHERE company_id = ? ORDER BY seq"
	if err := sqlx.SelectContext(ctx, q, &msgs, query, id); err != nil {
		return domain.Company{}, fmt.Errorf("get messages of %s: %w", id, err)
	}

	c := row.toDomain()
	for _, m := range msgs {
		c.Messages = append(c.Messages, m.toDomain())
	}
	return c, nil
}

func insertMessages(ctx context.Context, tx *sqlx.Tx, companyID string, msgs []domain.MessageRef) error {
	for _, m := range msgs {
		_, err := tx.ExecContext(ctx, "INSERT INTO messages (company_id, message_id, content, pinned) VALUES (?, ?, ?, ?)",
			companyID, string(m.ID), m.Content, m.Pinned)
		if err != nil {
			return fmt.Errorf("insert message %s of %s: %w", m.ID, companyID, err)
		}
	}
	return nil
}

func insertHistory(ctx context.Context, tx *sqlx.Tx, companyID string, items []domain.Announcement) error {
	for _, a := range items {
		_, err := tx.ExecContext(ctx, "INSERT INTO history (company_id, date, time, company, title, url) VALUES (?, ?, ?, ?, ?, ?)",
			companyID, a.Date, a.Time, a.Company, a.Title, a.URL)
		if err != nil {
			return fmt.Errorf("insert history of %s: %w", companyID, err)
		}
	}
	return nil
}

func (c companySQL) toDomain() domain.Company {
	return domain.Company{ID: c.ID, Name: c.Name, Emoji: c.Emoji, SourceRef: c.SourceRef}
}

func (m messageSQL) toDomain() domain.MessageRef {
	return domain.MessageRef{Content: m.Content, ID: domain.MessageID(m.MessageID), Pinned: m.Pinned}
}

func (h historySQL) toDomain() domain.Announcement {
	return domain.Announcement{Date: h.Date, Time: h.Time, Company: h.Company, Title: h.Title, URL: h.URL}
}
