package domain

// EventKind is the normalized push-event vocabulary. Whatever wire shape a
// deployment speaks, the transport adapter converges on exactly these names.
type EventKind string

const (
	EventMessage     EventKind = "message"
	EventTyping      EventKind = "typing"
	EventJoin        EventKind = "join"
	EventLeave       EventKind = "leave"
	EventPresence    EventKind = "presence"
	EventPin         EventKind = "pin"
	EventReadReceipt EventKind = "read-receipt"
)

// Event is one normalized push event, stripped of transport framing.
type Event struct {
	Kind      EventKind `json:"kind"`
	ChannelID ChannelID `json:"channel_id"`

	// Populated per kind; unused fields stay zero.
	Message   *Message     `json:"message,omitempty"`
	UserID    UserID       `json:"user_id,omitempty"`
	Nickname  string       `json:"nickname,omitempty"`
	Status    Status       `json:"status,omitempty"`
	Typing    bool         `json:"typing,omitempty"`
	MessageID MessageID    `json:"message_id,omitempty"`
	Pinned    bool         `json:"pinned,omitempty"`
	Receipt   *ReadReceipt `json:"receipt,omitempty"`
}
