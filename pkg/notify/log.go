package notify

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/espiscope/pkg/domain"
)

// Log writes notifications to the log, used when no other target is configured
type Log struct {
	seq atomic.Int64
}

// Send logs the message and returns a local reference
func (l *Log) Send(_ context.Context, msg Message) (domain.MessageRef, error) {
	id := fmt.Sprintf("log-%d-%d", time.Now().Unix(), l.seq.Add(1))
	lgr.Printf("[INFO] notification %s:\n%s", id, msg.Text)
	return domain.MessageRef{Content: msg.Text, ID: domain.MessageID(id)}, nil
}

// Unpin is a no-op for log
func (l *Log) Unpin(context.Context, domain.MessageRef) error { return nil }

// String for logs
func (l *Log) String() string { return "log" }
