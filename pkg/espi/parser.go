package espi

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/umputun/espiscope/pkg/domain"
)

// parseAnnouncements reads the first table of the page. Rows with less than four cells are headers
// or separators and skipped. A page without a table is a ParseError, a table without rows is an empty result.
func parseAnnouncements(base *url.URL, r io.Reader) ([]domain.Announcement, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{URL: base.String(), Reason: "invalid html", Err: err}
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &ParseError{URL: base.String(), Reason: "announcements table not found"}
	}

	rows := table.Find("tbody > tr")
	if rows.Length() == 0 {
		rows = table.Find("tr")
	}

	res := []domain.Announcement{}
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < 4 {
			return
		}
		a := domain.Announcement{
			Date:    cells.Eq(0).Text(),
			Time:    cells.Eq(1).Text(),
			Company: cells.Eq(2).Text(),
			Title:   cells.Eq(3).Text(),
		}
		if href, ok := cells.Eq(3).Find("a[href]").First().Attr("href"); ok {
			a.URL = resolveRef(base, href)
		}
		a = a.Normalize()
		if a.Title == "" {
			return
		}
		res = append(res, a)
	})
	return res, nil
}

// resolveRef makes href absolute against page url, broken refs are kept as is
func resolveRef(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
