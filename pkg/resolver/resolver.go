// Package resolver maps free-form user input (id, ticker, symbol or company name) to a canonical company id.
package resolver

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/umputun/espiscope/pkg/domain"
)

// FuzzyThreshold is the minimal Ratio for a full name to be a fuzzy candidate
const FuzzyThreshold = 90.0

// Tables are the lookup tables resolver works on
type Tables struct {
	Names   map[string]string // id -> full company name
	Tickers map[string]string // ticker -> id
	Symbols map[string]string // short symbol -> id
}

// Resolver resolves identifiers against lookup tables. Tables can be replaced at runtime with Swap,
// resolution in flight keeps using the tables it started with.
type Resolver struct {
	idx atomic.Pointer[index]
}

type index struct {
	names   map[string]string   // id -> name
	tickers map[string]string   // upper-cased ticker -> id
	symbols map[string]string   // upper-cased symbol -> id
	byName  map[string][]string // lower-cased name -> ids, sorted
	lowered []string            // distinct lower-cased names, sorted
}

// Candidate is a fuzzy match result
type Candidate struct {
	ID    string
	Name  string
	Score float64
}

// New makes resolver for given tables
func New(t Tables) *Resolver {
	r := &Resolver{}
	r.Swap(t)
	return r
}

// Swap replaces lookup tables atomically
func (r *Resolver) Swap(t Tables) {
	r.idx.Store(newIndex(t))
}

// Size returns number of entries in names, tickers and symbols tables
func (r *Resolver) Size() (names, tickers, symbols int) {
	idx := r.idx.Load()
	return len(idx.names), len(idx.tickers), len(idx.symbols)
}

// Name returns full company name for id
func (r *Resolver) Name(id string) (string, bool) {
	name, ok := r.idx.Load().names[id]
	return name, ok
}

// Resolve maps input to a company id. Tiers are tried in order and the first match wins:
// known numeric id, ticker, symbol, exact full name, fuzzy full name.
// Returns domain.ErrUnrecognized or *domain.AmbiguousError on failure.
func (r *Resolver) Resolve(input string) (string, error) {
	idx := r.idx.Load()
	input = strings.TrimSpace(input)
	if input == "" {
		return "", domain.ErrUnrecognized
	}

	// all-digit input not in the table falls through, it may be a ticker or symbol
	if isDigits(input) {
		if _, ok := idx.names[input]; ok {
			return input, nil
		}
	}

	upper := strings.ToUpper(input)
	if id, ok := idx.tickers[upper]; ok {
		return id, nil
	}
	if id, ok := idx.symbols[upper]; ok {
		return id, nil
	}

	lower := strings.ToLower(input)
	if ids, ok := idx.byName[lower]; ok {
		return idx.single(ids)
	}

	cands := idx.fuzzy(lower)
	switch len(cands) {
	case 0:
		return "", domain.ErrUnrecognized
	case 1:
		return cands[0].ID, nil
	default:
		names := make([]string, 0, len(cands))
		for _, c := range cands {
			names = append(names, c.Name)
		}
		return "", &domain.AmbiguousError{Candidates: names}
	}
}

func newIndex(t Tables) *index {
	idx := &index{
		names:   make(map[string]string, len(t.Names)),
		tickers: make(map[string]string, len(t.Tickers)),
		symbols: make(map[string]string, len(t.Symbols)),
		byName:  make(map[string][]string, len(t.Names)),
	}
	for id, name := range t.Names {
		idx.names[id] = name
		lower := strings.ToLower(strings.TrimSpace(name))
		if lower == "" {
			continue
		}
		if _, ok := idx.byName[lower]; !ok {
			idx.lowered = append(idx.lowered, lower)
		}
		idx.byName[lower] = append(idx.byName[lower], id)
	}
	for k, v := range t.Tickers {
		idx.tickers[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	for k, v := range t.Symbols {
		idx.symbols[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	for _, ids := range idx.byName {
		sort.Strings(ids)
	}
	sort.Strings(idx.lowered)
	return idx
}

// single resolves ids sharing the same name, more than one is ambiguous
func (idx *index) single(ids []string) (string, error) {
	if len(ids) == 1 {
		return ids[0], nil
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, idx.names[id]+" ("+id+")")
	}
	return "", &domain.AmbiguousError{Candidates: names}
}

// fuzzy returns all companies with names scoring at or above FuzzyThreshold, sorted by score desc, then name
func (idx *index) fuzzy(lower string) []Candidate {
	if lower == "" {
		return nil
	}
	var res []Candidate
	for _, name := range idx.lowered {
		score := Ratio(lower, name)
		if score < FuzzyThreshold {
			continue
		}
		for _, id := range idx.byName[name] {
			res = append(res, Candidate{ID: id, Name: idx.names[id], Score: score})
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Score != res[j].Score {
			return res[i].Score > res[j].Score
		}
		return res[i].Name < res[j].Name
	})
	return res
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
