package registry

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chatzone/chatsync/internal/domain"
)

// Deletion name locks hold a retired channel's lowercased name out of
// use for the cooldown window. A lock is a deadline entry; availability
// checks compare it against the clock and an expired entry is collected
// the next time the name is created.

// LockName reserves a name for the configured cooldown.
func (r *Registry) LockName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lockNameLocked(name)
}

func (r *Registry) lockNameLocked(name string) {
	lower := strings.ToLower(name)
	r.nameLocks[lower] = r.clock.Now().Add(r.opts.NameLockTTL)
	log.Info().Str("module", "registry").Str("name", lower).Msg("channel name locked")
}

// RetireInactive deletes every channel whose last activity predates the
// cutoff, excluding protected names, and locks each retired name.
// It returns the retired channels.
func (r *Registry) RetireInactive(cutoff time.Time, protected func(string) bool) []*domain.Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	var retired []*domain.Channel
	for id, ch := range r.byID {
		if !ch.LastActivity.Before(cutoff) {
			continue
		}
		if protected != nil && protected(string(ch.Name)) {
			continue
		}
		retired = append(retired, ch)
		r.deleteLocked(id)
		r.lockNameLocked(string(ch.Name))
	}
	return retired
}

// Evict removes a channel the authority reported deleted. Unlike
// RetireInactive it does not lock the name; the lock follows the
// authority's own cleanup semantics.
func (r *Registry) Evict(id domain.ChannelID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.deleteLocked(id)
	return true
}
