package messages

import "github.com/chatzone/chatsync/internal/domain"

// Read receipts are applied only from confirmed or broadcast data,
// never optimistically; the local reader list must not diverge from
// the authoritative one.

// ApplyReceipt records that a user has read a message. A user appears
// at most once per message; a repeat keeps the original timestamp.
func (e *Engine) ApplyReceipt(id domain.MessageID, r domain.ReadReceipt) {
	if id == "" || r.UserID == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, existing := range e.receipts[id] {
		if existing.UserID == r.UserID {
			return
		}
	}
	e.receipts[id] = append(e.receipts[id], r)
}

// Receipts returns the ordered reader list for a message.
func (e *Engine) Receipts(id domain.MessageID) []domain.ReadReceipt {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.ReadReceipt, len(e.receipts[id]))
	copy(out, e.receipts[id])
	return out
}

// HasRead reports whether a user's receipt is recorded for a message.
func (e *Engine) HasRead(id domain.MessageID, u domain.UserID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, r := range e.receipts[id] {
		if r.UserID == u {
			return true
		}
	}
	return false
}
