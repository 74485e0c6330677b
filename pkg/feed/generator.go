// Package feed renders tracked companies and their announcement history as RSS and OPML.
package feed

import (
	"crypto/sha1" //nolint:gosec // guid only, not security
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/umputun/espiscope/pkg/domain"
	"github.com/umputun/espiscope/pkg/espi"
)

// announcement dates on ESPI pages come in either form, time may be missing
var dateLayouts = []string{"2006-01-02 15:04", "02.01.2006 15:04", "2006-01-02", "02.01.2006"}

// warsaw is the zone of ESPI timestamps
var warsaw = loadZone("Europe/Warsaw")

// Generator creates RSS feeds from announcement history
type Generator struct {
	baseURL  string
	maxItems int
}

// NewGenerator creates a new feed generator, maxItems limits the feed size, 0 means no limit
func NewGenerator(baseURL string, maxItems int) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/"), maxItems: maxItems}
}

// CompanyRSS creates an RSS 2.0 feed with company announcements, newest first
func (g *Generator) CompanyRSS(c domain.Company, history []domain.Announcement) (string, error) {
	items := sortedByTime(history)
	if g.maxItems > 0 && len(items) > g.maxItems {
		items = items[:g.maxItems]
	}

	rssItems := make([]*RSSItem, 0, len(items))
	for _, it := range items {
		rssItems = append(rssItems, g.toRSSItem(c, it.Announcement, it.ts))
	}

	doc := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         c.Label(),
			Link:          pageLink(c.SourceRef),
			Description:   fmt.Sprintf("ESPI announcements of %s", c.Name),
			Language:      "pl",
			AtomLink:      &AtomLink{Href: g.selfLink(c.ID), Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: time.Now().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

// OPML creates an OPML file with feeds of all tracked companies
func (g *Generator) OPML(companies []domain.Company) (string, error) {
	type outline struct {
		XMLName xml.Name `xml:"outline"`
		Text    string   `xml:"text,attr"`
		Title   string   `xml:"title,attr"`
		Type    string   `xml:"type,attr"`
		XMLUrl  string   `xml:"xmlUrl,attr"`
		HTMLUrl string   `xml:"htmlUrl,attr,omitempty"`
	}

	type body struct {
		XMLName  xml.Name  `xml:"body"`
		Outlines []outline `xml:"outline"`
	}

	type head struct {
		XMLName     xml.Name `xml:"head"`
		Title       string   `xml:"title"`
		DateCreated string   `xml:"dateCreated"`
	}

	type opml struct {
		XMLName xml.Name `xml:"opml"`
		Version string   `xml:"version,attr"`
		Head    head     `xml:"head"`
		Body    body     `xml:"body"`
	}

	outlines := make([]outline, 0, len(companies))
	for _, c := range companies {
		outlines = append(outlines, outline{
			Text:    c.Label(),
			Title:   c.Name,
			Type:    "rss",
			XMLUrl:  g.selfLink(c.ID),
			HTMLUrl: pageLink(c.SourceRef),
		})
	}

	doc := opml{
		Version: "2.0",
		Head:    head{Title: "espiscope tracked companies", DateCreated: time.Now().Format(time.RFC1123Z)},
		Body:    body{Outlines: outlines},
	}
	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}
	return xml.Header + string(output), nil
}

func (g *Generator) toRSSItem(c domain.Company, a domain.Announcement, ts time.Time) *RSSItem {
	item := &RSSItem{
		Title:       a.Title,
		Link:        a.URL,
		Description: strings.TrimSpace(fmt.Sprintf("%s %s %s", a.Date, a.Time, a.Company)),
		Categories:  []string{c.Name},
	}
	if !ts.IsZero() {
		item.PubDate = ts.Format(time.RFC1123Z)
	}
	if a.URL != "" {
		item.GUID = &GUID{Value: a.URL, IsPermaLink: true}
	} else {
		sum := sha1.Sum([]byte(c.ID + a.Key())) //nolint:gosec // guid only
		item.GUID = &GUID{Value: hex.EncodeToString(sum[:])}
	}
	return item
}

func (g *Generator) selfLink(id string) string {
	return g.baseURL + "/rss/" + url.PathEscape(id)
}

type timedAnnouncement struct {
	domain.Announcement
	ts time.Time
}

// sortedByTime orders history newest first, entries without a parsable date go last in reverse stored order
func sortedByTime(history []domain.Announcement) []timedAnnouncement {
	res := make([]timedAnnouncement, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		res = append(res, timedAnnouncement{Announcement: history[i], ts: parseTime(history[i])})
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].ts.IsZero() || res[j].ts.IsZero() {
			return !res[i].ts.IsZero() && res[j].ts.IsZero()
		}
		return res[i].ts.After(res[j].ts)
	})
	return res
}

func parseTime(a domain.Announcement) time.Time {
	value := strings.TrimSpace(a.Date + " " + a.Time)
	for _, layout := range dateLayouts {
		if ts, err := time.ParseInLocation(layout, value, warsaw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func pageLink(sourceRef string) string {
	return espi.PageURL(sourceRef, time.Now())
}

func loadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
