package notify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	gomail "gopkg.in/mail.v2"

	"github.com/umputun/espiscope/pkg/domain"
)

// EmailParams defines SMTP settings
type EmailParams struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	From       string
	To         string
	Timeout    time.Duration
}

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email sends notifications over SMTP. Email has no pins, so Pin is ignored and Unpin does nothing.
type Email struct {
	params EmailParams
	sender mailSender
}

// NewEmail makes email notifier
func NewEmail(p EmailParams) *Email {
	dialer := gomail.NewDialer(p.SMTPServer, p.SMTPPort, p.SMTPUser, p.SMTPPass)
	dialer.Timeout = p.Timeout
	if dialer.Timeout <= 0 {
		dialer.Timeout = 10 * time.Second
	}
	return &Email{params: p, sender: dialer}
}

// Send delivers message as plain text email, Message-ID is used as message reference
func (e *Email) Send(ctx context.Context, msg Message) (domain.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return domain.MessageRef{}, fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}

	id := messageID(e.params.From)
	m := gomail.NewMessage()
	m.SetHeader("From", e.params.From)
	m.SetHeader("To", e.params.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", id)
	m.SetBody("text/plain", msg.Text)

	if err := e.sender.DialAndSend(m); err != nil {
		return domain.MessageRef{}, fmt.Errorf("%w: send email to %s: %w", domain.ErrDeliveryFailed, e.params.To, err)
	}
	lgr.Printf("[DEBUG] email sent: %s", msg.Subject)
	return domain.MessageRef{Content: msg.Text, ID: domain.MessageID(id)}, nil
}

// Unpin is a no-op for email
func (e *Email) Unpin(context.Context, domain.MessageRef) error { return nil }

// String for logs
func (e *Email) String() string { return "email to " + e.params.To }

// messageID makes unique Message-ID in the sender's domain
func messageID(from string) string {
	host := "espiscope"
	if addr, err := mail.ParseAddress(from); err == nil {
		if i := strings.LastIndex(addr.Address, "@"); i >= 0 && i < len(addr.Address)-1 {
			host = addr.Address[i+1:]
		}
	}
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return fmt.Sprintf("<%d.%s@%s>", time.Now().UnixNano(), hex.EncodeToString(b), host)
}
