package domain

import "time"

// MessageID is strictly increasing in insertion order across the whole store.
type MessageID uint64

// Message is an entry of a room log. Deletion only sets a tombstone so identifiers
// and ordering are never reused.
type Message struct {
	ID        MessageID
	RoomID    RoomID
	AuthorID  UserID
	Content   string
	ParentID  *MessageID
	CreatedAt time.Time
	EditedAt  *time.Time
	Deleted   bool
	DeletedAt *time.Time
}

func (m *Message) Edit(content string, at time.Time) {
	m.Content = content
	m.EditedAt = &at
}

func (m *Message) Delete(at time.Time) {
	m.Deleted = true
	m.DeletedAt = &at
}

// Redacted is the representation handed to readers: tombstones lose their content.
func (m Message) Redacted() Message {
	if m.Deleted {
		m.Content = ""
	}
	return m
}
