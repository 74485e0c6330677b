// Package notify delivers announcement messages to discord, email or log.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/umputun/espiscope/pkg/domain"
	"github.com/umputun/espiscope/pkg/espi"
)

// Message is a transport-neutral notification
type Message struct {
	Subject string // used by transports with a separate subject line
	Text    string // markdown body
	Pin     bool   // pin after posting, if transport supports it
}

// HeaderMessage is the pinned "name emoji" message posted when tracking starts
func HeaderMessage(c domain.Company) Message {
	return Message{Subject: c.Label(), Text: c.Label(), Pin: true}
}

// AnnouncementMessage formats a new announcement, excerpt is optional
func AnnouncementMessage(c domain.Company, a domain.Announcement, excerpt string) Message {
	link := a.URL
	if link == "" {
		link = espi.PageURL(c.SourceRef, time.Now())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📢 **%s**\n", c.Label())
	fmt.Fprintf(&sb, "🕒 %s %s\n", a.Date, a.Time)
	fmt.Fprintf(&sb, "📌 **%s**\n", a.Title)
	fmt.Fprintf(&sb, "%s\n", espi.Classify(a.Title))
	if excerpt != "" {
		fmt.Fprintf(&sb, "%s\n", quote(excerpt))
	}
	fmt.Fprintf(&sb, "🔗 [View on ESPI](%s)", link)

	return Message{Subject: fmt.Sprintf("📢 %s: %s", c.Label(), a.Title), Text: sb.String()}
}

// quote prefixes every line with markdown quote marker
func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
