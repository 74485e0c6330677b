// Package domain defines the core types shared by the poller, the stores and the command handlers.
package domain

import (
	"errors"
	"strings"
)

// Announcement is a single ESPI disclosure row scraped from the company page
type Announcement struct {
	Date    string `json:"date" db:"date"`
	Time    string `json:"time" db:"time"`
	Company string `json:"company" db:"company"`
	Title   string `json:"title" db:"title"`
	URL     string `json:"url" db:"url"`
}

// keySep separates fields in identity keys, can't appear in scraped text after normalization
const keySep = "\x1f"

// Normalize returns a copy with every field trimmed and inner whitespace runs collapsed to a single space
func (a Announcement) Normalize() Announcement {
	return Announcement{
		Date:    collapse(a.Date),
		Time:    collapse(a.Time),
		Company: collapse(a.Company),
		Title:   collapse(a.Title),
		URL:     strings.TrimSpace(a.URL),
	}
}

// Key returns the full-record identity of the normalized announcement
func (a Announcement) Key() string {
	n := a.Normalize()
	return strings.Join([]string{n.Date, n.Time, n.Company, n.Title, n.URL}, keySep)
}

// TitleKey returns the title-only identity of the normalized announcement
func (a Announcement) TitleKey() string {
	return collapse(a.Title)
}

// Validate checks the record is usable, stored records failing it mean a corrupted store
func (a Announcement) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return errors.New("announcement title is empty")
	}
	return nil
}

func collapse(s string) string {
	s = strings.ReplaceAll(s, keySep, " ")
	return strings.Join(strings.Fields(s), " ")
}
