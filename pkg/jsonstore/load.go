package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pkgz/lgr"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/umputun/espiscope/pkg/domain"
)

// loadCompanies reads companies file. Unreadable file or record is skipped and reported as corruption.
func (s *Store) loadCompanies() error {
	data, ok, err := s.readFile(CompaniesFile)
	if err != nil || !ok {
		return err
	}

	raw, err := decodeObject(data)
	if err != nil {
		s.corrupt(CompaniesFile, data, fmt.Errorf("%w: %s: %w", domain.ErrStoreCorrupted, CompaniesFile, err))
		return nil
	}

	damaged := false
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		var c domain.Company
		if err := json.Unmarshal(pair.Value, &c); err != nil {
			s.report(fmt.Errorf("%w: %s: company %s: %w", domain.ErrStoreCorrupted, CompaniesFile, pair.Key, err))
			damaged = true
			continue
		}
		c.ID = pair.Key
		if err := c.Validate(); err != nil {
			s.report(fmt.Errorf("%w: %s: %w", domain.ErrStoreCorrupted, CompaniesFile, err))
			damaged = true
			continue
		}
		s.companies.Set(c.ID, cloneCompany(c))
	}
	if damaged {
		s.backup(CompaniesFile, data)
	}
	return nil
}

// loadHistory reads history file. Entries failing validation mark history of that company as corrupted,
// unreadable file leaves all histories missing, reconcile marks them corrupted then.
func (s *Store) loadHistory() (fileErr error, err error) {
	data, ok, err := s.readFile(HistoryFile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return errors.New("history file missing"), nil
	}

	raw, err := decodeObject(data)
	if err != nil {
		fileErr = fmt.Errorf("%s: %w", HistoryFile, err)
		s.corrupt(HistoryFile, data, fmt.Errorf("%w: %w", domain.ErrStoreCorrupted, fileErr))
		return fileErr, nil
	}

	damaged := false
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		items, err := decodeHistory(pair.Value)
		if err != nil {
			s.corrupted[pair.Key] = err
			s.report(fmt.Errorf("%w: %s: history of %s: %w", domain.ErrStoreCorrupted, HistoryFile, pair.Key, err))
			damaged = true
			continue
		}
		s.history.Set(pair.Key, items)
	}
	if damaged {
		s.backup(HistoryFile, data)
	}
	return nil, nil
}

// reconcile drops orphan history left by interrupted removal and marks companies without history as corrupted,
// so their history is reseeded instead of everything being announced as new
func (s *Store) reconcile(historyErr error) error {
	orphans := 0
	for pair := s.history.Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := s.companies.Get(pair.Key); !ok {
			lgr.Printf("[INFO] dropping history of untracked company %s", pair.Key)
			orphans++
		}
	}
	if orphans > 0 {
		hist := orderedmap.New[string, []domain.Announcement](s.history.Len())
		for pair := s.history.Oldest(); pair != nil; pair = pair.Next() {
			if _, ok := s.companies.Get(pair.Key); ok {
				hist.Set(pair.Key, pair.Value)
			}
		}
		if err := s.write(HistoryFile, hist); err != nil {
			return fmt.Errorf("drop orphan history: %w", err)
		}
		s.history = hist
	}
	for id := range s.corrupted {
		if _, ok := s.companies.Get(id); !ok {
			delete(s.corrupted, id)
		}
	}

	for pair := s.companies.Oldest(); pair != nil; pair = pair.Next() {
		id := pair.Key
		if _, ok := s.history.Get(id); ok {
			continue
		}
		if _, ok := s.corrupted[id]; ok {
			continue
		}
		reason := errors.New("no stored history")
		if historyErr != nil {
			reason = historyErr
		}
		s.corrupted[id] = reason
		s.report(fmt.Errorf("%w: history of %s: %w", domain.ErrStoreCorrupted, id, reason))
	}
	return nil
}

// readFile returns file content, ok is false for missing file
func (s *Store) readFile(name string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(filepath.Join(s.dir, name)) //nolint:gosec // path from config
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", name, err)
	}
	return data, true, nil
}

// corrupt reports unreadable file and keeps its copy aside
func (s *Store) corrupt(name string, data []byte, err error) {
	s.report(err)
	s.backup(name, data)
}

func (s *Store) report(err error) {
	lgr.Printf("[ERROR] %v", err)
	s.corruptions = append(s.corruptions, err)
}

// backup keeps a copy of damaged file, it will be overwritten on the next write
func (s *Store) backup(name string, data []byte) {
	path := filepath.Join(s.dir, name+".corrupted")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		lgr.Printf("[WARN] can't save copy of damaged %s: %v", name, err)
		return
	}
	lgr.Printf("[WARN] copy of damaged %s saved to %s", name, path)
}

// decodeObject parses top level json object keeping key order
func decodeObject(data []byte) (*orderedmap.OrderedMap[string, json.RawMessage], error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty file")
	}
	if !json.Valid(trimmed) {
		return nil, errors.New("invalid json")
	}
	if trimmed[0] != '{' {
		return nil, errors.New("not a json object")
	}
	res := orderedmap.New[string, json.RawMessage]()
	if err := res.UnmarshalJSON(trimmed); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	return res, nil
}

// decodeHistory parses list of announcements of a company, fails on any record without title
func decodeHistory(raw json.RawMessage) ([]domain.Announcement, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, errors.New("history is null")
	}
	var items []domain.Announcement
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode announcements: %w", err)
	}
	for i, a := range items {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("announcement %d: %w", i, err)
		}
	}
	return nonNil(items), nil
}
