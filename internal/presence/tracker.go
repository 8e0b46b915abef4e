// Package presence tracks per-user online state. Own-status changes go
// through the authority and land here on confirmation; remote presence
// events are applied unconditionally.
package presence

import (
	"sync"

	"github.com/chatzone/chatsync/internal/domain"
)

type Tracker struct {
	mu       sync.RWMutex
	statuses map[domain.UserID]domain.Status
}

func NewTracker() *Tracker {
	return &Tracker{statuses: make(map[domain.UserID]domain.Status)}
}

// Update applies a status unconditionally. Invalid statuses are
// dropped; unknown wire values must not corrupt the map.
func (t *Tracker) Update(u domain.UserID, s domain.Status) {
	if u == "" || !domain.ValidStatus(s) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if s == domain.StatusOffline {
		delete(t.statuses, u)
		return
	}
	t.statuses[u] = s
}

// Status returns a user's status, offline for anyone unknown.
func (t *Tracker) Status(u domain.UserID) domain.Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if s, ok := t.statuses[u]; ok {
		return s
	}
	return domain.StatusOffline
}

// Snapshot copies the full non-offline status map.
func (t *Tracker) Snapshot() map[domain.UserID]domain.Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[domain.UserID]domain.Status, len(t.statuses))
	for u, s := range t.statuses {
		out[u] = s
	}
	return out
}

// Replace installs an authority-fetched status map wholesale.
func (t *Tracker) Replace(all map[domain.UserID]domain.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statuses = make(map[domain.UserID]domain.Status, len(all))
	for u, s := range all {
		if domain.ValidStatus(s) && s != domain.StatusOffline {
			t.statuses[u] = s
		}
	}
}
