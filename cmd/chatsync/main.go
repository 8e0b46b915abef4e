package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/chatzone/chatsync/internal/api"
	"github.com/chatzone/chatsync/internal/app"
	"github.com/chatzone/chatsync/internal/config"
	"github.com/chatzone/chatsync/internal/domain"
	"github.com/chatzone/chatsync/internal/lifecycle"
	"github.com/chatzone/chatsync/internal/messages"
	"github.com/chatzone/chatsync/internal/notify"
	"github.com/chatzone/chatsync/internal/presence"
	"github.com/chatzone/chatsync/internal/registry"
	"github.com/chatzone/chatsync/internal/session"
	"github.com/chatzone/chatsync/internal/transport"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	clock := clockwork.NewRealClock()

	store := session.NewStore(afero.NewOsFs(), cfg.SessionFile)
	if err := store.Load(); err != nil {
		log.Error().Err(err).Msg("failed to load session snapshot")
	}

	var self domain.UserID
	if u := store.User(); u != nil {
		self = u.ID
		log.Info().Str("user", string(self)).Msg("restored session")
	}

	client := api.NewClient(cfg.APIBaseURL, store)
	bus := transport.NewBus()
	adapter := transport.NewAdapter(transport.Options{
		URL:        cfg.WSURL,
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
	}, transport.CodecFor(cfg.WireProtocol), store, bus)

	reg := registry.New(self, clock, registry.Options{
		InviteMarkerTTL: cfg.InviteMarkerTTL,
		NameLockTTL:     cfg.NameLockCooldown,
	})
	engine := messages.NewEngine(clock)
	tracker := presence.NewTracker()

	dispatcher := notify.NewDispatcher(store.User, store,
		notify.HiddenVisibility{}, notify.GrantedPermissions{}, notify.LogRenderer{}, clock)

	orch := &app.Orchestrator{
		API:       client,
		Session:   store,
		Registry:  reg,
		Messages:  engine,
		Presence:  tracker,
		Transport: adapter,
		Notify:    dispatcher,
	}
	orch.BindBus()

	sweeper := lifecycle.NewSweeper(reg, engine, client, clock, lifecycle.Options{
		InactivityThreshold: cfg.InactivityThreshold,
		Interval:            cfg.SweepInterval,
		ProtectedNames:      cfg.ProtectedChannels,
	})

	adapter.OnState(func(s transport.State) {
		log.Info().Str("state", string(s)).Msg("push connection state")
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		adapter.Run(ctx)
		return nil
	})
	g.Go(func() error {
		sweeper.Run(ctx)
		return nil
	})

	if store.LoggedIn() {
		if err := orch.Bootstrap(ctx); err != nil {
			log.Error().Err(err).Msg("bootstrap failed")
		}
	} else {
		log.Info().Msg("no stored session; waiting for login")
	}

	_ = g.Wait()
	log.Info().Msg("shutting down")
}
