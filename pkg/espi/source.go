// Package espi fetches and parses ESPI announcement tables published by biznes.pap.pl.
package espi

import (
	"strconv"
	"strings"
	"time"
)

// DefaultURLTemplate is the company announcements page. {id} is expanded when a company is added,
// {year} on every fetch.
const DefaultURLTemplate = "https://biznes.pap.pl/espi/espi/{year}?company={id}&selectCompany={id}"

// SourceRef expands {id} in template, the result is stored with the tracked company
func SourceRef(template, id string) string {
	if template == "" {
		template = DefaultURLTemplate
	}
	return strings.ReplaceAll(template, "{id}", id)
}

// PageURL expands {year} in source reference for the given time
func PageURL(sourceRef string, now time.Time) string {
	return strings.ReplaceAll(sourceRef, "{year}", strconv.Itoa(now.Year()))
}
