package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/chatzone/chatsync/internal/apperr"
	"github.com/chatzone/chatsync/internal/domain"
)

// Login authenticates, persists the session snapshot and re-dials the
// push connection with the new credential. Buffered local state and
// joined registrations survive the re-dial.
func (o *Orchestrator) Login(ctx context.Context, email, password string) (*domain.User, error) {
	res, err := o.API.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	o.Session.SetSession(res.User, res.Token)
	o.Registry.RegisterUser(res.User)
	o.Transport.Reauth()
	log.Info().Str("module", "app").Str("user", string(res.User.ID)).Msg("logged in")
	return res.User, nil
}

func (o *Orchestrator) Register(ctx context.Context, nickname, email, password string) (*domain.User, error) {
	return o.API.Register(ctx, nickname, email, password)
}

// Logout clears the snapshot and forces the connection onto the empty
// credential.
func (o *Orchestrator) Logout() {
	o.Session.Clear()
	o.Transport.Reauth()
	log.Info().Str("module", "app").Msg("logged out")
}

func (o *Orchestrator) SetNotifyMode(m domain.NotifyMode) {
	o.Session.SetNotifyMode(m)
}

// SetStatus pushes the caller's own status and applies it locally only
// on confirmation.
func (o *Orchestrator) SetStatus(ctx context.Context, s domain.Status) error {
	self := o.selfID()
	if self == "" {
		return apperr.ErrNotLoggedIn
	}
	confirmed, err := o.API.SetStatus(ctx, s)
	if err != nil {
		return err
	}
	o.Presence.Update(self, confirmed)
	return nil
}
