// Package tracker owns the set of tracked companies and runs the check cycle for each of them:
// fetch the company page, diff it against stored history, notify about new announcements and persist
// what was delivered.
package tracker

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/espiscope/pkg/diff"
	"github.com/umputun/espiscope/pkg/domain"
	"github.com/umputun/espiscope/pkg/notify"
)

// Store keeps tracked companies, their message audit trail and announcement history.
// AddCompany, RemoveCompany and CommitDiff change a company together with its history as one unit.
type Store interface {
	Companies(ctx context.Context) ([]domain.Company, error)
	Company(ctx context.Context, id string) (domain.Company, error)
	History(ctx context.Context, id string) ([]domain.Announcement, error)
	AddCompany(ctx context.Context, c domain.Company, history []domain.Announcement) error
	RemoveCompany(ctx context.Context, id string) (domain.Company, error)
	CommitDiff(ctx context.Context, id string, appended []domain.Announcement, msgs []domain.MessageRef) error
	ReplaceHistory(ctx context.Context, id string, history []domain.Announcement) error
}

// Fetcher returns current announcements from the company page, newest first
type Fetcher interface {
	Fetch(ctx context.Context, sourceRef string) ([]domain.Announcement, error)
}

// Excerpter returns a short text of the announcement body, optional capability of a Fetcher
type Excerpter interface {
	Excerpt(ctx context.Context, detailURL string, maxLen int) (string, error)
}

// Notifier delivers messages
type Notifier interface {
	Send(ctx context.Context, msg notify.Message) (domain.MessageRef, error)
	Unpin(ctx context.Context, ref domain.MessageRef) error
}

// Registry is the single owner of tracking state. Operations on the same company are serialized,
// so a check can't interleave with add or remove of that company.
type Registry struct {
	store      Store
	fetcher    Fetcher
	notifier   Notifier
	policy     diff.Policy
	excerptLen int
	locks      *keyedMutex
}

// Params for New
type Params struct {
	Store      Store
	Fetcher    Fetcher
	Notifier   Notifier
	Policy     diff.Policy
	ExcerptLen int // add announcement body excerpt of this length, 0 disables; fetcher must implement Excerpter
}

// AddRequest describes company to start tracking
type AddRequest struct {
	ID        string
	Name      string
	Emoji     string
	SourceRef string
	Seed      []domain.Announcement // current fetch if the caller already has it, fetched otherwise
}

// CheckResult reports a single company check
type CheckResult struct {
	ID        string
	Fetched   int  // announcements on the page
	New       int  // announcements not in history
	Delivered int  // new announcements notified and persisted
	Reseeded  bool // history was corrupted and rebuilt from the page without notifications
}

// New makes registry
func New(p Params) *Registry {
	return &Registry{
		store:      p.Store,
		fetcher:    p.Fetcher,
		notifier:   p.Notifier,
		policy:     p.Policy,
		excerptLen: p.ExcerptLen,
		locks:      newKeyedMutex(),
	}
}

// Add starts tracking the company. History is seeded from the current page, so announcements published
// before tracking started are never reported. The "name emoji" header is posted and pinned, a failed
// header doesn't fail the add.
func (r *Registry) Add(ctx context.Context, req AddRequest) (domain.Company, error) {
	unlock := r.locks.lock(req.ID)
	defer unlock()

	if _, err := r.store.Company(ctx, req.ID); err == nil {
		return domain.Company{}, fmt.Errorf("add %s: %w", req.ID, domain.ErrAlreadyTracked)
	} else if !errors.Is(err, domain.ErrNotTracked) {
		return domain.Company{}, fmt.Errorf("add %s: %w", req.ID, err)
	}

	fresh := req.Seed
	if fresh == nil {
		var err error
		if fresh, err = r.fetcher.Fetch(ctx, req.SourceRef); err != nil {
			return domain.Company{}, fmt.Errorf("add %s: %w", req.ID, err)
		}
	}
	_, seeded := diff.Diff(fresh, nil, r.policy)

	c := domain.Company{ID: req.ID, Name: req.Name, Emoji: req.Emoji, SourceRef: req.SourceRef}
	header, err := r.notifier.Send(ctx, notify.HeaderMessage(c))
	if err != nil {
		lgr.Printf("[WARN] header message for %s not sent: %v", c.Label(), err)
	} else {
		c.Messages = []domain.MessageRef{header}
	}

	if err := r.store.AddCompany(ctx, c, seeded); err != nil {
		if len(c.Messages) > 0 && c.Messages[0].Pinned {
			if uerr := r.notifier.Unpin(ctx, c.Messages[0]); uerr != nil {
				lgr.Printf("[WARN] can't unpin header of %s: %v", c.Label(), uerr)
			}
		}
		return domain.Company{}, fmt.Errorf("add %s: %w", req.ID, err)
	}
	trackedCompanies.Inc()
	lgr.Printf("[INFO] tracking %s (%s), %d announcements seeded", c.Label(), c.ID, len(seeded))
	return c, nil
}

// Remove stops tracking and returns the removed company, its messages let the caller undo pins
func (r *Registry) Remove(ctx context.Context, id string) (domain.Company, error) {
	unlock := r.locks.lock(id)
	defer unlock()

	c, err := r.store.RemoveCompany(ctx, id)
	if err != nil {
		return domain.Company{}, fmt.Errorf("remove %s: %w", id, err)
	}
	trackedCompanies.Dec()
	lgr.Printf("[INFO] stopped tracking %s (%s)", c.Label(), c.ID)
	return c, nil
}

// List returns tracked companies in the order they were added
func (r *Registry) List(ctx context.Context) ([]domain.Company, error) {
	res, err := r.store.Companies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	trackedCompanies.Set(float64(len(res)))
	return res, nil
}

// History returns the company with announcements known for it, in stored order
func (r *Registry) History(ctx context.Context, id string) (domain.Company, []domain.Announcement, error) {
	c, err := r.store.Company(ctx, id)
	if err != nil {
		return domain.Company{}, nil, fmt.Errorf("history %s: %w", id, err)
	}
	history, err := r.store.History(ctx, id)
	if err != nil {
		return domain.Company{}, nil, fmt.Errorf("history %s: %w", c.Label(), err)
	}
	return c, history, nil
}

// Check runs one cycle for the company. New announcements are notified in page order and persisted
// after delivery, the first failed delivery stops the cycle and the rest stay new for the next one.
// Corrupted history is rebuilt from the current page without notifications.
func (r *Registry) Check(ctx context.Context, id string) (res CheckResult, err error) {
	st := time.Now()
	defer func() {
		checkDuration.Observe(time.Since(st).Seconds())
		checksTotal.WithLabelValues(checkLabel(res, err)).Inc()
	}()

	unlock := r.locks.lock(id)
	defer unlock()

	res.ID = id
	c, err := r.store.Company(ctx, id)
	if err != nil {
		return res, fmt.Errorf("check %s: %w", id, err)
	}

	fresh, err := r.fetcher.Fetch(ctx, c.SourceRef)
	if err != nil {
		return res, fmt.Errorf("check %s: %w", c.Label(), err)
	}
	res.Fetched = len(fresh)

	history, err := r.store.History(ctx, id)
	if errors.Is(err, domain.ErrStoreCorrupted) {
		lgr.Printf("[ERROR] %v, rebuilding history of %s from current page", err, c.Label())
		_, seeded := diff.Diff(fresh, nil, r.policy)
		if err := r.store.ReplaceHistory(ctx, id, seeded); err != nil {
			return res, fmt.Errorf("reseed history of %s: %w", c.Label(), err)
		}
		res.Reseeded = true
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("check %s: %w", c.Label(), err)
	}

	newItems, _ := diff.Diff(fresh, history, r.policy)
	res.New = len(newItems)
	if len(newItems) == 0 {
		return res, nil
	}
	announcementsNew.Add(float64(len(newItems)))
	lgr.Printf("[INFO] %d new announcements for %s", len(newItems), c.Label())

	delivered := make([]domain.Announcement, 0, len(newItems))
	msgs := make([]domain.MessageRef, 0, len(newItems))
	var deliveryErr error
	for _, a := range newItems {
		ref, err := r.notifier.Send(ctx, notify.AnnouncementMessage(c, a, r.excerpt(ctx, a)))
		if err != nil {
			notificationsTotal.WithLabelValues("failure").Inc()
			deliveryErr = fmt.Errorf("notify %s about %q: %w", c.Label(), a.Title, err)
			break
		}
		notificationsTotal.WithLabelValues("success").Inc()
		delivered = append(delivered, a)
		msgs = append(msgs, ref)
	}
	res.Delivered = len(delivered)

	if err := r.store.CommitDiff(ctx, id, delivered, msgs); err != nil {
		// nothing was recorded, delivered messages will be sent again on the next check
		return res, fmt.Errorf("persist %d delivered announcements of %s: %w", len(delivered), c.Label(), err)
	}
	return res, deliveryErr
}

// excerpt returns body excerpt if enabled, failures only lose the excerpt
func (r *Registry) excerpt(ctx context.Context, a domain.Announcement) string {
	if r.excerptLen <= 0 || a.URL == "" {
		return ""
	}
	ex, ok := r.fetcher.(Excerpter)
	if !ok {
		return ""
	}
	text, err := ex.Excerpt(ctx, a.URL, r.excerptLen)
	if err != nil {
		lgr.Printf("[DEBUG] no excerpt for %s: %v", a.URL, err)
		return ""
	}
	return text
}

func checkLabel(res CheckResult, err error) string {
	switch {
	case err == nil && res.Reseeded:
		return resultReseeded
	case err == nil:
		return resultOK
	case errors.Is(err, domain.ErrFetchFailed):
		return resultFetchFailed
	case errors.Is(err, domain.ErrDeliveryFailed):
		return resultDeliveryFailed
	default:
		return resultError
	}
}
