package registry

import (
	"github.com/rs/zerolog/log"

	"github.com/chatzone/chatsync/internal/apperr"
	"github.com/chatzone/chatsync/internal/domain"
)

// The moderation state machine per (channel, target) pair:
// member → [kick vote accumulation] → banned → [admin invite] → member.
// A banned user never rejoins through self-service join; only an
// admin-issued invite clears a ban.

// Invite adds a user to a channel. On a private channel only the admin
// may invite. A banned target can only be invited by the admin, which
// implicitly unbans. The invite marker is set when the target is this
// session's own user and skipped when the target invited themselves.
func (r *Registry) Invite(actor domain.UserID, id domain.ChannelID, target domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.byID[id]
	if !ok {
		return apperr.ErrChannelNotFound
	}
	if _, known := r.users[target]; !known {
		return apperr.ErrUserNotFound
	}
	if ch.Type == domain.ChannelPrivate && ch.AdminID != actor {
		return apperr.ErrNotAdmin
	}

	if ch.IsBanned(target) {
		if ch.AdminID != actor {
			return apperr.NotAuthorized("only the admin may invite a banned user")
		}
		r.unbanLocked(ch, target)
	}

	if ch.HasMember(target) {
		return apperr.ErrAlreadyMember
	}
	ch.Members = append(ch.Members, target)
	ch.LastActivity = r.clock.Now()

	if target == r.self && target != actor {
		r.markInviteLocked(id)
	}
	log.Info().Str("module", "registry").Str("channel", string(id)).Str("user", string(target)).Msg("user invited")
	return nil
}

// KickResult reports how far a vote-kick has progressed. VotesRemaining
// is zero when the target was banned.
type KickResult struct {
	Banned         bool
	VotesRemaining int
}

// Kick bans immediately when the actor is the admin. Otherwise, on a
// public channel, it accumulates one vote per distinct voter and
// converts to a ban at the threshold.
func (r *Registry) Kick(actor domain.UserID, id domain.ChannelID, target domain.UserID) (*KickResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.byID[id]
	if !ok {
		return nil, apperr.ErrChannelNotFound
	}
	if !ch.HasMember(actor) {
		return nil, apperr.ErrNotMember
	}
	if !ch.HasMember(target) {
		return nil, apperr.NotFound("target is not a member of this channel")
	}
	if target == ch.AdminID {
		return nil, apperr.NotAuthorized("the channel admin cannot be kicked")
	}

	if actor == ch.AdminID {
		r.banLocked(ch, target)
		return &KickResult{Banned: true}, nil
	}

	if ch.Type != domain.ChannelPublic {
		return nil, apperr.NotAuthorized("only the admin may kick on a private channel")
	}

	key := voteKey{channel: id, target: target}
	votes := r.kickVotes[key]
	if votes == nil {
		votes = make(map[domain.UserID]struct{})
		r.kickVotes[key] = votes
	}
	votes[actor] = struct{}{}

	if len(votes) >= KickVoteThreshold {
		delete(r.kickVotes, key)
		r.banLocked(ch, target)
		return &KickResult{Banned: true}, nil
	}
	remaining := KickVoteThreshold - len(votes)
	log.Info().Str("module", "registry").
		Str("channel", string(id)).Str("target", string(target)).
		Int("votes_remaining", remaining).Msg("kick vote recorded")
	return &KickResult{VotesRemaining: remaining}, nil
}

// Revoke removes a member without banning them. Admin only.
func (r *Registry) Revoke(actor domain.UserID, id domain.ChannelID, target domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.byID[id]
	if !ok {
		return apperr.ErrChannelNotFound
	}
	if ch.AdminID != actor {
		return apperr.ErrNotAdmin
	}
	if target == ch.AdminID {
		return apperr.NotAuthorized("the channel admin cannot be revoked")
	}
	if !ch.HasMember(target) {
		return apperr.ErrNotMember
	}
	r.removeMemberLocked(ch, target)
	log.Info().Str("module", "registry").Str("channel", string(id)).Str("user", string(target)).Msg("membership revoked")
	return nil
}

// Leave removes the actor from the channel. When the admin leaves, the
// channel is deleted outright.
func (r *Registry) Leave(actor domain.UserID, id domain.ChannelID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.byID[id]
	if !ok {
		return apperr.ErrChannelNotFound
	}
	if !ch.HasMember(actor) {
		return apperr.ErrNotMember
	}
	if ch.AdminID == actor {
		r.deleteLocked(id)
		return nil
	}
	r.removeMemberLocked(ch, actor)
	return nil
}

// Quit deletes the channel entirely. Admin only.
func (r *Registry) Quit(actor domain.UserID, id domain.ChannelID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.byID[id]
	if !ok {
		return apperr.ErrChannelNotFound
	}
	if ch.AdminID != actor {
		return apperr.ErrNotAdmin
	}
	r.deleteLocked(id)
	return nil
}

func (r *Registry) removeMemberLocked(ch *domain.Channel, u domain.UserID) {
	members := ch.Members[:0]
	for _, m := range ch.Members {
		if m != u {
			members = append(members, m)
		}
	}
	ch.Members = members
	if t, ok := r.typing[ch.ID]; ok {
		delete(t, u)
	}
}

// banLocked converts a member to banned and clears any pending votes
// against them. The member and banned sets stay disjoint.
func (r *Registry) banLocked(ch *domain.Channel, target domain.UserID) {
	r.removeMemberLocked(ch, target)
	if !ch.IsBanned(target) {
		ch.Banned = append(ch.Banned, target)
	}
	delete(r.kickVotes, voteKey{channel: ch.ID, target: target})
	log.Info().Str("module", "registry").Str("channel", string(ch.ID)).Str("user", string(target)).Msg("user banned")
}

func (r *Registry) unbanLocked(ch *domain.Channel, target domain.UserID) {
	banned := ch.Banned[:0]
	for _, b := range ch.Banned {
		if b != target {
			banned = append(banned, b)
		}
	}
	ch.Banned = banned
}

// PendingVotes reports the distinct voters currently recorded against a
// target, zero after a conversion cleared the tracker.
func (r *Registry) PendingVotes(id domain.ChannelID, target domain.UserID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.kickVotes[voteKey{channel: id, target: target}])
}
