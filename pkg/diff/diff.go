// Package diff detects new announcements by comparing a fresh fetch with the stored history.
package diff

import (
	"fmt"
	"strings"

	"github.com/umputun/espiscope/pkg/domain"
)

// Policy defines what makes two announcements the same
type Policy int

// identity policies
const (
	FullRecord Policy = iota // all normalized fields must match
	TitleOnly                // only the title must match
)

// ParsePolicy converts config value ("full" or "title") to Policy, empty means full
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return FullRecord, nil
	case "title":
		return TitleOnly, nil
	default:
		return FullRecord, fmt.Errorf("unknown identity policy %q", s)
	}
}

func (p Policy) String() string {
	if p == TitleOnly {
		return "title"
	}
	return "full"
}

func (p Policy) key(a domain.Announcement) string {
	if p == TitleOnly {
		return a.TitleKey()
	}
	return a.Key()
}

// Diff returns announcements from fresh not present in history, in fetch order, and the history with them appended.
// Stored items are normalized. The input slices are never modified. Items repeated within fresh are reported once.
func Diff(fresh, history []domain.Announcement, policy Policy) (newItems, updated []domain.Announcement) {
	seen := make(map[string]struct{}, len(history)+len(fresh))
	for _, h := range history {
		seen[policy.key(h)] = struct{}{}
	}

	updated = make([]domain.Announcement, len(history), len(history)+len(fresh))
	copy(updated, history)

	for _, a := range fresh {
		k := policy.key(a)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		n := a.Normalize()
		newItems = append(newItems, n)
		updated = append(updated, n)
	}
	return newItems, updated
}
