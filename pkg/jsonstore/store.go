// Package jsonstore keeps tracked companies and their announcement history in two json files,
// pinned_stocks.json and espi_history.json, in the layout the Discord bot has always written.
//
// Files are replaced atomically through a temp file and rename. The two files are written in an order
// that makes a crash between them safe: history goes first on add and companies go first on remove,
// so the only possible leftover is an orphan history entry, which is dropped on the next load.
package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/go-pkgz/lgr"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/umputun/espiscope/pkg/domain"
)

// file names in the store directory
const (
	CompaniesFile = "pinned_stocks.json"
	HistoryFile   = "espi_history.json"
)

// Store is a json file backed state store, safe for concurrent use
type Store struct {
	dir string

	mu          sync.Mutex
	companies   *orderedmap.OrderedMap[string, domain.Company]
	history     *orderedmap.OrderedMap[string, []domain.Announcement]
	corrupted   map[string]error // company id -> why its history can't be used
	corruptions []error
	unsaved     bool // companies in memory have message refs not written yet
}

// Open loads the store from dir, missing files mean an empty store. Corrupted content doesn't fail Open:
// a broken file is copied aside with .corrupted suffix and treated as empty, broken history of a company
// is reported by History as ErrStoreCorrupted. All of that is logged and available from Corruptions.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("make store dir %s: %w", dir, err)
	}
	s := &Store{
		dir:       dir,
		companies: orderedmap.New[string, domain.Company](),
		history:   orderedmap.New[string, []domain.Announcement](),
		corrupted: map[string]error{},
	}
	if err := s.loadCompanies(); err != nil {
		return nil, err
	}
	historyErr, err := s.loadHistory()
	if err != nil {
		return nil, err
	}
	if err := s.reconcile(historyErr); err != nil {
		return nil, err
	}
	return s, nil
}

// Corruptions returns problems found while loading, each matches domain.ErrStoreCorrupted
func (s *Store) Corruptions() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.corruptions)
}

// Companies returns tracked companies in the order they were added
func (s *Store) Companies(context.Context) ([]domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]domain.Company, 0, s.companies.Len())
	for pair := s.companies.Oldest(); pair != nil; pair = pair.Next() {
		res = append(res, cloneCompany(pair.Value))
	}
	return res, nil
}

// Company returns a tracked company, ErrNotTracked if there is no such company
func (s *Store) Company(_ context.Context, id string) (domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies.Get(id)
	if !ok {
		return domain.Company{}, fmt.Errorf("company %s: %w", id, domain.ErrNotTracked)
	}
	return cloneCompany(c), nil
}

// History returns stored announcements of the company, ErrStoreCorrupted if they failed validation on load
func (s *Store) History(_ context.Context, id string) ([]domain.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies.Get(id); !ok {
		return nil, fmt.Errorf("history of %s: %w", id, domain.ErrNotTracked)
	}
	if err, ok := s.corrupted[id]; ok {
		return nil, fmt.Errorf("%w: history of %s: %w", domain.ErrStoreCorrupted, id, err)
	}
	h, _ := s.history.Get(id)
	return slices.Clone(h), nil
}

// AddCompany stores a new company with its seeded history, ErrAlreadyTracked if the id exists
func (s *Store) AddCompany(_ context.Context, c domain.Company, history []domain.Announcement) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("add company: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies.Get(c.ID); ok {
		return fmt.Errorf("add company %s: %w", c.ID, domain.ErrAlreadyTracked)
	}

	hist := withValue(s.history, c.ID, nonNil(slices.Clone(history)))
	if err := s.write(HistoryFile, hist); err != nil {
		return fmt.Errorf("add company %s: %w", c.ID, err)
	}
	s.history = hist
	delete(s.corrupted, c.ID)

	companies := withValue(s.companies, c.ID, cloneCompany(c))
	if err := s.write(CompaniesFile, companies); err != nil {
		// history entry without company is an orphan, dropped on next load
		s.history = without(s.history, c.ID)
		return fmt.Errorf("add company %s: %w", c.ID, err)
	}
	s.companies = companies
	s.unsaved = false
	return nil
}

// RemoveCompany deletes company and its history and returns the removed record
func (s *Store) RemoveCompany(_ context.Context, id string) (domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.companies.Get(id)
	if !ok {
		return domain.Company{}, fmt.Errorf("company %s: %w", id, domain.ErrNotTracked)
	}

	companies := without(s.companies, id)
	if err := s.write(CompaniesFile, companies); err != nil {
		return domain.Company{}, fmt.Errorf("remove company %s: %w", id, err)
	}
	s.companies = companies
	s.unsaved = false

	s.history = without(s.history, id)
	delete(s.corrupted, id)
	if err := s.write(HistoryFile, s.history); err != nil {
		lgr.Printf("[WARN] history of removed company %s not written, will be dropped on next load: %v", id, err)
	}
	return cloneCompany(c), nil
}

// CommitDiff appends delivered announcements and their messages. History is written first. A failed
// companies write after it doesn't fail the commit: the announcements are recorded and won't be sent again,
// message refs stay in memory and are written with the next commit.
func (s *Store) CommitDiff(_ context.Context, id string, appended []domain.Announcement, msgs []domain.MessageRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(appended) == 0 && len(msgs) == 0 && !s.unsaved {
		return nil
	}

	c, ok := s.companies.Get(id)
	if !ok {
		return fmt.Errorf("commit diff of %s: %w", id, domain.ErrNotTracked)
	}

	if len(appended) > 0 {
		prev, _ := s.history.Get(id)
		hist := withValue(s.history, id, append(slices.Clone(prev), appended...))
		if err := s.write(HistoryFile, hist); err != nil {
			return fmt.Errorf("commit diff of %s: %w", id, err)
		}
		s.history = hist
	}

	if len(msgs) > 0 {
		updated := cloneCompany(c)
		updated.Messages = append(updated.Messages, msgs...)
		s.companies = withValue(s.companies, id, updated)
		s.unsaved = true
	}
	if !s.unsaved {
		return nil
	}
	if err := s.write(CompaniesFile, s.companies); err != nil {
		lgr.Printf("[ERROR] messages of %s not written, will retry with the next commit: %v", id, err)
		return nil
	}
	s.unsaved = false
	return nil
}

// ReplaceHistory overwrites company history, used to reseed a corrupted one
func (s *Store) ReplaceHistory(_ context.Context, id string, history []domain.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies.Get(id); !ok {
		return fmt.Errorf("replace history of %s: %w", id, domain.ErrNotTracked)
	}
	hist := withValue(s.history, id, nonNil(slices.Clone(history)))
	if err := s.write(HistoryFile, hist); err != nil {
		return fmt.Errorf("replace history of %s: %w", id, err)
	}
	s.history = hist
	delete(s.corrupted, id)
	return nil
}

// withValue returns a copy of om with key set, existing key keeps its position
func withValue[V any](om *orderedmap.OrderedMap[string, V], key string, v V) *orderedmap.OrderedMap[string, V] {
	res := orderedmap.New[string, V](om.Len() + 1)
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		res.Set(pair.Key, pair.Value)
	}
	res.Set(key, v)
	return res
}

// without returns a copy of om with key removed
func without[V any](om *orderedmap.OrderedMap[string, V], key string) *orderedmap.OrderedMap[string, V] {
	res := orderedmap.New[string, V](om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key != key {
			res.Set(pair.Key, pair.Value)
		}
	}
	return res
}

// write encodes the map with 4 spaces indent and replaces the file atomically
func (s *Store) write(name string, v json.Marshaler) error {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "    "); err != nil {
		return fmt.Errorf("indent %s: %w", name, err)
	}
	buf.WriteByte('\n')
	return writeAtomic(filepath.Join(s.dir, name), buf.Bytes())
}

// writeAtomic writes data to a temp file in the same directory and renames it over the target
func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // state files are not secret
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

func cloneCompany(c domain.Company) domain.Company {
	c.Messages = nonNil(slices.Clone(c.Messages))
	return c
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
