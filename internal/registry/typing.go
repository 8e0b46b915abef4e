package registry

import (
	"sort"
	"time"

	"github.com/chatzone/chatsync/internal/domain"
)

// Typing state is fed by push events and read by the UI. Entries decay
// by timestamp rather than timers: a user is "typing" while their last
// signal is younger than the typing window.

func (r *Registry) SetTyping(id domain.ChannelID, u domain.UserID, typing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return
	}
	m := r.typing[id]
	if m == nil {
		m = make(map[domain.UserID]time.Time)
		r.typing[id] = m
	}
	if typing {
		m[u] = r.clock.Now()
	} else {
		delete(m, u)
	}
}

// TypingUsers lists members currently typing in a channel, sorted for
// stable rendering.
func (r *Registry) TypingUsers(id domain.ChannelID) []domain.UserID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := r.typing[id]
	if len(m) == 0 {
		return nil
	}
	cutoff := r.clock.Now().Add(-typingWindow)
	out := make([]domain.UserID, 0, len(m))
	for u, at := range m {
		if at.After(cutoff) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
