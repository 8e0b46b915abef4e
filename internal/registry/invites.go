package registry

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chatzone/chatsync/internal/domain"
)

// Invite markers flag "new invite" channels for the current user in the
// channel list. They are a UI annotation, not authorization: each entry
// records its expiry deadline and reads compare against the clock, so an
// expired marker disappears on the next lookup without any timer firing.

func (r *Registry) markInviteLocked(id domain.ChannelID) {
	r.invites[id] = r.clock.Now().Add(r.opts.InviteMarkerTTL)
	log.Debug().Str("module", "registry").Str("channel", string(id)).Msg("invite marker set")
}

func (r *Registry) inviteActiveLocked(id domain.ChannelID, now time.Time) bool {
	deadline, ok := r.invites[id]
	return ok && now.Before(deadline)
}

// MarkInvite flags a channel as newly-invited for the current user.
func (r *Registry) MarkInvite(id domain.ChannelID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markInviteLocked(id)
}

// DismissInvite clears the marker before its deadline.
func (r *Registry) DismissInvite(id domain.ChannelID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invites, id)
}

func (r *Registry) HasInvite(id domain.ChannelID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.inviteActiveLocked(id, r.clock.Now())
}
