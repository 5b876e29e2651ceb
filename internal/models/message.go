package models

import (
	"time"
)

// MessageStatus is the delivery state of a message.
//
// StatusSending and StatusFailed are client-local: they exist only for
// provisional entries that have not been persisted and never appear in
// server responses. StatusSent, StatusDelivered and StatusRead are
// server-authoritative.
type MessageStatus string

const (
	StatusSending   MessageStatus = "sending"
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
	StatusFailed    MessageStatus = "failed"
)

// Local reports whether the status is a client-local provisional state.
func (s MessageStatus) Local() bool {
	return s == StatusSending || s == StatusFailed
}

// MessagePriority flags urgent traffic.
type MessagePriority string

const (
	PriorityNormal MessagePriority = "normal"
	PriorityUrgent MessagePriority = "urgent"
)

// Message is a unit of communication within exactly one thread. A thread
// is addressed by the correspondent it represents; messages carry no
// separate thread identity beyond the from/to pair.
type Message struct {
	// ID is server-assigned once persisted. Provisional entries carry a
	// locally unique temporary id until the next reload discards them.
	ID string `json:"id"`

	// FromID and ToID identify sender and recipient.
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`

	// Content is the non-empty message text.
	Content string `json:"content"`

	// SentAt orders the thread and feeds display time formatting.
	SentAt time.Time `json:"sent_at"`

	// Status is the delivery state.
	Status MessageStatus `json:"status"`

	// Priority flags urgent traffic.
	Priority MessagePriority `json:"priority,omitempty"`

	// IsMine is derived: FromID equals the current operator id. Set by
	// the thread loader, not by the server.
	IsMine bool `json:"-"`

	// Provisional marks a locally synthesized entry that has not been
	// persisted. Provisional entries vanish on the next full reload.
	Provisional bool `json:"-"`
}

// Editable reports whether the message may currently be edited: it must
// be the operator's own and must not have progressed past sent. A zero
// status counts as editable so records from stores that omit status are
// not locked out.
func (m Message) Editable() bool {
	if !m.IsMine {
		return false
	}
	return m.Status == StatusSent || m.Status == ""
}

// Deletable reports whether the operator may delete the message.
// Deletion is restricted to the sender.
func (m Message) Deletable() bool {
	return m.IsMine && !m.Status.Local()
}

// DisplayTime formats SentAt for the thread view: clock time for
// same-day messages, date plus clock time otherwise.
func (m Message) DisplayTime() string {
	return formatDisplayTime(m.SentAt, time.Now())
}

func formatDisplayTime(sentAt, now time.Time) string {
	if sentAt.IsZero() {
		return ""
	}
	local := sentAt.Local()
	if local.Year() == now.Year() && local.YearDay() == now.YearDay() {
		return local.Format("15:04")
	}
	return local.Format("Jan 2 15:04")
}

// Validate checks the message for dispatch.
func (m *Message) Validate() error {
	validation := &ValidationErrors{}
	if m.FromID == "" {
		validation.AddMessage("from_id", "sender is required")
	}
	if m.ToID == "" {
		validation.AddMessage("to_id", "recipient is required")
	}
	if m.Content == "" {
		validation.AddMessage("content", "content must not be empty")
	}
	return validation.Err()
}
