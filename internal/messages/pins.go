package messages

import "github.com/chatzone/chatsync/internal/domain"

// Pin records a pinned message. Idempotent: pinning an already-pinned
// message keeps the single existing entry.
func (e *Engine) Pin(channelID domain.ChannelID, id domain.MessageID, by domain.UserID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.pins[channelID] {
		if p.MessageID == id {
			return
		}
	}
	e.pins[channelID] = append(e.pins[channelID], domain.PinEntry{
		MessageID: id,
		PinnedBy:  by,
		PinnedAt:  e.clock.Now(),
	})
}

// Unpin removes a pin entry. Unpinning something not pinned is a no-op.
func (e *Engine) Unpin(channelID domain.ChannelID, id domain.MessageID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pins := e.pins[channelID]
	for i, p := range pins {
		if p.MessageID == id {
			e.pins[channelID] = append(pins[:i], pins[i+1:]...)
			return
		}
	}
}

// Pins returns the channel's pin entries in pin order.
func (e *Engine) Pins(channelID domain.ChannelID) []domain.PinEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.PinEntry, len(e.pins[channelID]))
	copy(out, e.pins[channelID])
	return out
}

// IsPinned reports whether a message is pinned in a channel.
func (e *Engine) IsPinned(channelID domain.ChannelID, id domain.MessageID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, p := range e.pins[channelID] {
		if p.MessageID == id {
			return true
		}
	}
	return false
}
