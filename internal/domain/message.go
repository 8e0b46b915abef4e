package domain

import "time"

type MessageID string

// TombstoneContent replaces the body of a soft-deleted message.
// The original content is discarded, only the marker remains.
const TombstoneContent = "[deleted]"

type Message struct {
	ID        MessageID  `json:"id"`
	ChannelID ChannelID  `json:"channel_id"`
	AuthorID  UserID     `json:"author_id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	Edited    bool       `json:"edited"`
	Deleted   bool       `json:"deleted"`
}

// Tombstone converts the message to its deleted form in place.
func (m *Message) Tombstone(at time.Time) {
	m.Content = TombstoneContent
	m.Deleted = true
	m.DeletedAt = &at
}

// ReadReceipt records one user having read one message.
type ReadReceipt struct {
	UserID UserID    `json:"user_id"`
	ReadAt time.Time `json:"read_at"`
}

// PinEntry records a pinned message and who pinned it.
type PinEntry struct {
	MessageID MessageID `json:"message_id"`
	PinnedBy  UserID    `json:"pinned_by"`
	PinnedAt  time.Time `json:"pinned_at"`
}
