package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultEmoji is used when glyph generation fails or returns nothing
const DefaultEmoji = "🏢"

// Company is a tracked entity with its notification audit trail
type Company struct {
	ID        string       `json:"-" db:"id"`
	Name      string       `json:"name" db:"name"`
	Emoji     string       `json:"emoji" db:"emoji"`
	SourceRef string       `json:"url" db:"source_ref"`
	Messages  []MessageRef `json:"messages" db:"-"`
}

// Label returns "name emoji", the form used in pinned headers and message titles
func (c Company) Label() string {
	if c.Emoji == "" {
		return c.Name
	}
	return c.Name + " " + c.Emoji
}

// PinnedMessages returns messages from the audit trail still marked as pinned
func (c Company) PinnedMessages() []MessageRef {
	var res []MessageRef
	for _, m := range c.Messages {
		if m.Pinned {
			res = append(res, m)
		}
	}
	return res
}

// Validate checks required fields of a stored company record
func (c Company) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("company id is empty")
	}
	if c.Name == "" {
		return fmt.Errorf("company %s has no name", c.ID)
	}
	if c.SourceRef == "" {
		return fmt.Errorf("company %s has no source reference", c.ID)
	}
	return nil
}

// MessageRef is a handle of a message sent by a notifier
type MessageRef struct {
	Content string    `json:"content" db:"content"`
	ID      MessageID `json:"id" db:"message_id"`
	Pinned  bool      `json:"pinned" db:"pinned"`
}

// MessageID is an external message id. Discord ids are numeric snowflakes, other transports may use any string.
// In json it is written as a bare number when numeric, and both forms are accepted on read.
type MessageID string

// MarshalJSON writes numeric ids as json numbers
func (m MessageID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseUint(string(m), 10, 64); err == nil && (len(m) == 1 || m[0] != '0') {
		return []byte(m), nil
	}
	return json.Marshal(string(m))
}

// UnmarshalJSON accepts json numbers and strings
func (m *MessageID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode message id: %w", err)
		}
		*m = MessageID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode message id: %w", err)
	}
	*m = MessageID(n.String())
	return nil
}
