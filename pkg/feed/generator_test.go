package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/espiscope/pkg/domain"
)

var company = domain.Company{ID: "42", Name: "11 BIT STUDIOS SA", Emoji: "🎮",
	SourceRef: "https://espi.example.com/{year}?company=42"}

func TestGenerator_CompanyRSS(t *testing.T) {
	history := []domain.Announcement{
		{Date: "2024-05-08", Time: "08:00", Company: "11 BIT STUDIOS SA", Title: "Raport okresowy"},
		{Date: "2024-05-10", Time: "14:21", Company: "11 BIT STUDIOS SA", Title: "Zbycie akcji",
			URL: "https://espi.example.com/view/2"},
		{Date: "", Company: "11 BIT STUDIOS SA", Title: "Bez daty"},
		{Date: "09.05.2024", Time: "16:30", Company: "11 BIT STUDIOS SA", Title: "Polski format"},
	}

	g := NewGenerator("http://localhost:8080/", 0)
	out, err := g.CompanyRSS(company, history)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, xml.Header))

	parsed, err := gofeed.NewParser().ParseString(out)
	require.NoError(t, err)
	assert.Equal(t, "rss", parsed.FeedType)
	assert.Equal(t, "11 BIT STUDIOS SA 🎮", parsed.Title)
	assert.Contains(t, out, fmt.Sprintf("<link>https://espi.example.com/%d?company=42</link>", time.Now().Year()))
	assert.Contains(t, out, `href="http://localhost:8080/rss/42" rel="self"`)

	require.Len(t, parsed.Items, 4)
	titles := make([]string, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		titles = append(titles, it.Title)
	}
	assert.Equal(t, []string{"Zbycie akcji", "Polski format", "Raport okresowy", "Bez daty"}, titles)

	first := parsed.Items[0]
	assert.Equal(t, "https://espi.example.com/view/2", first.Link)
	assert.Equal(t, "https://espi.example.com/view/2", first.GUID)
	require.NotNil(t, first.PublishedParsed)
	assert.Equal(t, 14, first.PublishedParsed.In(loadZone("Europe/Warsaw")).Hour(), "parsed back in utc")
	assert.Equal(t, []string{"11 BIT STUDIOS SA"}, first.Categories)

	assert.Len(t, parsed.Items[2].GUID, 40, "sha1 guid without link")
	assert.Nil(t, parsed.Items[3].PublishedParsed)

	// guid is stable between renders
	again, err := g.CompanyRSS(company, history)
	require.NoError(t, err)
	parsedAgain, err := gofeed.NewParser().ParseString(again)
	require.NoError(t, err)
	assert.Equal(t, parsed.Items[2].GUID, parsedAgain.Items[2].GUID)
}

func TestGenerator_CompanyRSSLimit(t *testing.T) {
	history := make([]domain.Announcement, 0, 10)
	for i := range 10 {
		history = append(history, domain.Announcement{Date: fmt.Sprintf("2024-05-%02d", i+1), Title: fmt.Sprintf("t%d", i)})
	}
	out, err := NewGenerator("http://localhost", 3).CompanyRSS(company, history)
	require.NoError(t, err)
	parsed, err := gofeed.NewParser().ParseString(out)
	require.NoError(t, err)
	require.Len(t, parsed.Items, 3)
	assert.Equal(t, "t9", parsed.Items[0].Title)

	out, err = NewGenerator("http://localhost", 3).CompanyRSS(company, nil)
	require.NoError(t, err)
	parsed, err = gofeed.NewParser().ParseString(out)
	require.NoError(t, err)
	assert.Empty(t, parsed.Items)
}

func TestGenerator_OPML(t *testing.T) {
	g := NewGenerator("http://localhost:8080", 0)
	out, err := g.OPML([]domain.Company{company, {ID: "7", Name: "ALIOR BANK SA", Emoji: "🏦", SourceRef: "https://espi.example.com/7"}})
	require.NoError(t, err)

	var doc struct {
		Outlines []struct {
			Text   string `xml:"text,attr"`
			XMLUrl string `xml:"xmlUrl,attr"`
		} `xml:"body>outline"`
	}
	require.NoError(t, xml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Outlines, 2)
	assert.Equal(t, "11 BIT STUDIOS SA 🎮", doc.Outlines[0].Text)
	assert.Equal(t, "http://localhost:8080/rss/7", doc.Outlines[1].XMLUrl)
}

func TestParseTime(t *testing.T) {
	ts := parseTime(domain.Announcement{Date: "10.05.2024", Time: "14:21"})
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, time.May, ts.Month())
	assert.Equal(t, 21, ts.Minute())

	assert.False(t, parseTime(domain.Announcement{Date: "2024-05-10"}).IsZero())
	assert.True(t, parseTime(domain.Announcement{Date: "yesterday"}).IsZero())
}
