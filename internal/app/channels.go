package app

import (
	"context"

	"github.com/chatzone/chatsync/internal/apperr"
	"github.com/chatzone/chatsync/internal/domain"
)

// CreateChannel checks name availability locally (live channels plus
// deletion locks), asks the authority, and adopts the confirmed
// channel. The local model mutates only after confirmation.
func (o *Orchestrator) CreateChannel(ctx context.Context, name string, typ domain.ChannelType) (*domain.Channel, error) {
	if !o.Registry.IsNameAvailable(name) {
		return nil, apperr.ErrNameTaken
	}
	ch, err := o.API.CreateChannel(ctx, name, typ)
	if err != nil {
		return nil, err
	}
	o.Registry.Adopt(ch)
	o.Transport.Join(ch.ID)
	return ch, nil
}

// JoinChannelResult mirrors the get-or-create semantics of joining by
// name.
type JoinChannelResult struct {
	Created bool
	Channel *domain.Channel
}

// JoinChannel is idempotent get-or-create. A missing channel is created
// through the authority; an existing one is joined through the same
// get-or-create endpoint so the authority confirms the membership before
// the local model changes. Banned callers and existing members are
// settled locally without a request.
func (o *Orchestrator) JoinChannel(ctx context.Context, name string, typ domain.ChannelType) (*JoinChannelResult, error) {
	self := o.selfID()
	if self == "" {
		return nil, apperr.ErrNotLoggedIn
	}

	ch, ok := o.Registry.ByName(name)
	if !ok {
		created, err := o.CreateChannel(ctx, name, typ)
		if err != nil {
			return nil, err
		}
		return &JoinChannelResult{Created: true, Channel: created}, nil
	}
	if ch.IsBanned(self) {
		return nil, apperr.ErrBannedFromJoin
	}
	if ch.HasMember(self) {
		return &JoinChannelResult{Channel: ch}, nil
	}

	confirmed, err := o.API.CreateChannel(ctx, name, typ)
	if err != nil {
		return nil, err
	}
	o.Registry.Adopt(confirmed)
	o.Transport.Join(confirmed.ID)
	return &JoinChannelResult{Channel: confirmed}, nil
}

// InviteUser applies the moderation rules locally and broadcasts the
// membership change as a join frame.
func (o *Orchestrator) InviteUser(ctx context.Context, id domain.ChannelID, target domain.UserID) error {
	self := o.selfID()
	if self == "" {
		return apperr.ErrNotLoggedIn
	}
	if err := o.Registry.Invite(self, id, target); err != nil {
		return err
	}
	if err := o.Transport.Send(id, domain.EventJoin, map[string]string{"user_id": string(target)}); err != nil {
		// membership already applied; the frame is best-effort
		logSendFailure(id, err)
	}
	return nil
}

// KickUser runs the vote-or-ban state machine and, on a conversion,
// broadcasts the target's departure.
func (o *Orchestrator) KickUser(ctx context.Context, id domain.ChannelID, target domain.UserID) (*KickOutcome, error) {
	self := o.selfID()
	if self == "" {
		return nil, apperr.ErrNotLoggedIn
	}
	res, err := o.Registry.Kick(self, id, target)
	if err != nil {
		return nil, err
	}
	if res.Banned {
		if err := o.Transport.Send(id, domain.EventLeave, map[string]string{"user_id": string(target)}); err != nil {
			logSendFailure(id, err)
		}
	}
	return &KickOutcome{Banned: res.Banned, VotesRemaining: res.VotesRemaining}, nil
}

type KickOutcome struct {
	Banned         bool
	VotesRemaining int
}

// RevokeUser removes a member without banning. Admin only.
func (o *Orchestrator) RevokeUser(ctx context.Context, id domain.ChannelID, target domain.UserID) error {
	self := o.selfID()
	if self == "" {
		return apperr.ErrNotLoggedIn
	}
	if err := o.Registry.Revoke(self, id, target); err != nil {
		return err
	}
	if err := o.Transport.Send(id, domain.EventLeave, map[string]string{"user_id": string(target)}); err != nil {
		logSendFailure(id, err)
	}
	return nil
}

// LeaveChannel removes the caller, cascading to deletion when the
// caller is the admin. The authority is informed first; the local
// mutation follows confirmation.
func (o *Orchestrator) LeaveChannel(ctx context.Context, id domain.ChannelID) error {
	self := o.selfID()
	if self == "" {
		return apperr.ErrNotLoggedIn
	}
	if _, ok := o.Registry.Get(id); !ok {
		return apperr.ErrChannelNotFound
	}
	if err := o.API.LeaveChannel(ctx, id); err != nil {
		return err
	}
	if err := o.Registry.Leave(self, id); err != nil {
		return err
	}
	o.Registry.DismissInvite(id)
	o.Transport.Leave(id)
	if _, ok := o.Registry.Get(id); !ok {
		o.Messages.DropChannel(id)
	}
	return nil
}

// QuitChannel deletes the channel outright. Admin only.
func (o *Orchestrator) QuitChannel(ctx context.Context, id domain.ChannelID) error {
	self := o.selfID()
	if self == "" {
		return apperr.ErrNotLoggedIn
	}
	if !o.Registry.IsAdmin(id, self) {
		if _, ok := o.Registry.Get(id); !ok {
			return apperr.ErrChannelNotFound
		}
		return apperr.ErrNotAdmin
	}
	if err := o.API.LeaveChannel(ctx, id); err != nil {
		return err
	}
	if err := o.Registry.Quit(self, id); err != nil {
		return err
	}
	o.Transport.Leave(id)
	o.Messages.DropChannel(id)
	return nil
}

// SendTyping emits a typing indicator frame for a joined channel.
func (o *Orchestrator) SendTyping(id domain.ChannelID, typing bool) error {
	self := o.selfID()
	if self == "" {
		return apperr.ErrNotLoggedIn
	}
	return o.Transport.Send(id, domain.EventTyping, map[string]any{
		"user_id": string(self),
		"typing":  typing,
	})
}

func (o *Orchestrator) selfID() domain.UserID {
	if u := o.Session.User(); u != nil {
		return u.ID
	}
	return ""
}
