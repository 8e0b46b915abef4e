package domain

import "time"

type (
	ChannelID   string
	ChannelName string
)

type ChannelType string

const (
	ChannelPublic  ChannelType = "public"
	ChannelPrivate ChannelType = "private"
)

// PageCursor tracks the pagination window last fetched for a channel.
type PageCursor struct {
	Page     int  `json:"page"`
	HasMore  bool `json:"has_more"`
	PageSize int  `json:"page_size"`
}

// Channel is the client-side mirror of one conversation space.
// Invariants are enforced by the registry, not here: the admin is always
// a member, and the banned set is disjoint from the member set.
type Channel struct {
	ID           ChannelID   `json:"id"`
	Name         ChannelName `json:"name"`
	Type         ChannelType `json:"type"`
	AdminID      UserID      `json:"admin_id"`
	Members      []UserID    `json:"members"`
	Banned       []UserID    `json:"banned,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	LastActivity time.Time   `json:"last_activity"`
	Cursor       PageCursor  `json:"-"`
}

func (c *Channel) HasMember(u UserID) bool {
	for _, m := range c.Members {
		if m == u {
			return true
		}
	}
	return false
}

func (c *Channel) IsBanned(u UserID) bool {
	for _, b := range c.Banned {
		if b == u {
			return true
		}
	}
	return false
}
