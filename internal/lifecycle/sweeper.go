// Package lifecycle retires inactive channels and keeps their names on
// cooldown. The sweep never blocks user commands: a command racing a
// sweep sees an ordinary not-found failure, not stale state.
package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/chatzone/chatsync/internal/domain"
	"github.com/chatzone/chatsync/internal/messages"
	"github.com/chatzone/chatsync/internal/registry"
)

// Authority is the slice of the REST surface the sweeper uses.
type Authority interface {
	Cleanup(ctx context.Context) ([]domain.ChannelID, error)
}

type Options struct {
	InactivityThreshold time.Duration
	Interval            time.Duration
	ProtectedNames      []string
}

type Sweeper struct {
	reg       *registry.Registry
	eng       *messages.Engine
	authority Authority
	clock     clockwork.Clock
	opts      Options
	protected map[string]struct{}
}

func NewSweeper(reg *registry.Registry, eng *messages.Engine, authority Authority, clock clockwork.Clock, opts Options) *Sweeper {
	if opts.InactivityThreshold <= 0 {
		opts.InactivityThreshold = 30 * 24 * time.Hour
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	protected := make(map[string]struct{}, len(opts.ProtectedNames))
	for _, n := range opts.ProtectedNames {
		protected[strings.ToLower(n)] = struct{}{}
	}
	return &Sweeper{reg: reg, eng: eng, authority: authority, clock: clock, opts: opts, protected: protected}
}

func (s *Sweeper) isProtected(name string) bool {
	_, ok := s.protected[strings.ToLower(name)]
	return ok
}

// Run sweeps on the configured interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.Sweep(ctx)
		}
	}
}

// Sweep retires locally and, when an authority is wired, reconciles
// with its cleanup so both sides evict the same channels.
func (s *Sweeper) Sweep(ctx context.Context) {
	retired := s.SweepLocal()
	if len(retired) > 0 {
		log.Info().Str("module", "lifecycle").Int("retired", len(retired)).Msg("inactive channels retired")
	}
	if s.authority == nil {
		return
	}
	deleted, err := s.authority.Cleanup(ctx)
	if err != nil {
		// transient; the next interval tries again
		log.Warn().Str("module", "lifecycle").Err(err).Msg("authority cleanup failed")
		return
	}
	for _, id := range deleted {
		if ch, ok := s.reg.Get(id); ok {
			name := string(ch.Name)
			if s.reg.Evict(id) {
				s.reg.LockName(name)
				s.eng.DropChannel(id)
			}
		}
	}
}

// SweepLocal deletes every channel idle past the threshold, locks each
// name for the cooldown and drops the channel's message state.
func (s *Sweeper) SweepLocal() []*domain.Channel {
	cutoff := s.clock.Now().Add(-s.opts.InactivityThreshold)
	retired := s.reg.RetireInactive(cutoff, s.isProtected)
	for _, ch := range retired {
		s.eng.DropChannel(ch.ID)
	}
	return retired
}
