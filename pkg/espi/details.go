package espi

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"
	"github.com/microcosm-cc/bluemonday"
)

// trailingParagraphs is a number of footer paragraphs (source, contact, disclaimer) closing every article
const trailingParagraphs = 3

var textPolicy = bluemonday.StrictPolicy()

// Excerpt downloads announcement detail page and returns its body text, cut to maxLen runes.
// Paragraphs are separated by an empty line.
func (f *Fetcher) Excerpt(ctx context.Context, detailURL string, maxLen int) (string, error) {
	body, err := f.get(ctx, f.details, detailURL)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", &ParseError{URL: detailURL, Reason: "invalid html", Err: err}
	}
	article := doc.Find("article").First()
	if article.Length() == 0 {
		// pages of other publishers have no article element, leave it to generic extraction
		text, err := extractMain(detailURL, body)
		if err != nil {
			return "", err
		}
		return truncate(text, maxLen), nil
	}

	paragraphs := article.Find("p")
	n := paragraphs.Length() - trailingParagraphs
	parts := make([]string, 0, max(n, 0))
	paragraphs.Each(func(i int, p *goquery.Selection) {
		if i >= n {
			return
		}
		raw, err := p.Html()
		if err != nil {
			return
		}
		text := strings.Join(strings.Fields(html.UnescapeString(textPolicy.Sanitize(raw))), " ")
		if text != "" {
			parts = append(parts, text)
		}
	})
	return truncate(strings.Join(parts, "\n\n"), maxLen), nil
}

// extractMain finds the main text of arbitrary page with trafilatura
func extractMain(detailURL string, body []byte) (string, error) {
	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		ExcludeTables:   true,
		IncludeImages:   false,
		IncludeLinks:    false,
		Deduplicate:     true,
	}
	if u, err := url.Parse(detailURL); err == nil {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(bytes.NewReader(body), opts)
	if err != nil || result == nil {
		return "", &ParseError{URL: detailURL, Reason: "article not found", Err: err}
	}
	text := strings.TrimSpace(result.ContentText)
	if text == "" {
		return "", &ParseError{URL: detailURL, Reason: "article not found"}
	}
	return text, nil
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s…", strings.TrimSpace(string(r[:maxLen])))
}
