// Package app wires user commands to the authority and routes push
// events into the stores. It is the only place that touches more than
// one store per operation.
package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/chatzone/chatsync/internal/api"
	"github.com/chatzone/chatsync/internal/domain"
	"github.com/chatzone/chatsync/internal/messages"
	"github.com/chatzone/chatsync/internal/notify"
	"github.com/chatzone/chatsync/internal/presence"
	"github.com/chatzone/chatsync/internal/registry"
	"github.com/chatzone/chatsync/internal/session"
	"github.com/chatzone/chatsync/internal/transport"
)

type Orchestrator struct {
	API       *api.Client
	Session   *session.Store
	Registry  *registry.Registry
	Messages  *messages.Engine
	Presence  *presence.Tracker
	Transport *transport.Adapter
	Notify    *notify.Dispatcher
}

// BindBus subscribes every store to the normalized push stream. The
// read pump publishes synchronously, so per-channel arrival order is
// the order of application.
func (o *Orchestrator) BindBus() {
	bus := o.Transport.Bus()

	bus.Subscribe(domain.EventMessage, func(ev domain.Event) {
		if ev.Message == nil {
			return
		}
		o.Messages.Upsert(ev.Message)
		o.Registry.Touch(ev.ChannelID)
		o.evaluateNotification(ev.Message)
	})

	bus.Subscribe(domain.EventTyping, func(ev domain.Event) {
		o.Registry.SetTyping(ev.ChannelID, ev.UserID, ev.Typing)
	})

	bus.Subscribe(domain.EventJoin, func(ev domain.Event) {
		o.Registry.ApplyMemberJoin(ev.ChannelID, ev.UserID, ev.Nickname)
	})

	bus.Subscribe(domain.EventLeave, func(ev domain.Event) {
		o.Registry.ApplyMemberLeave(ev.ChannelID, ev.UserID)
		if _, ok := o.Registry.Get(ev.ChannelID); !ok {
			// admin left; the cascade removed the channel
			o.Messages.DropChannel(ev.ChannelID)
			o.Transport.Leave(ev.ChannelID)
		}
	})

	bus.Subscribe(domain.EventPresence, func(ev domain.Event) {
		o.Presence.Update(ev.UserID, ev.Status)
	})

	bus.Subscribe(domain.EventPin, func(ev domain.Event) {
		if ev.Pinned {
			o.Messages.Pin(ev.ChannelID, ev.MessageID, ev.UserID)
		} else {
			o.Messages.Unpin(ev.ChannelID, ev.MessageID)
		}
	})

	bus.Subscribe(domain.EventReadReceipt, func(ev domain.Event) {
		if ev.Receipt != nil {
			o.Messages.ApplyReceipt(ev.MessageID, *ev.Receipt)
		}
	})
}

func (o *Orchestrator) evaluateNotification(msg *domain.Message) {
	if o.Notify == nil {
		return
	}
	authorName := string(msg.AuthorID)
	if u, ok := o.Registry.UserByID(msg.AuthorID); ok {
		authorName = u.Nickname
	}
	channelName := string(msg.ChannelID)
	if ch, ok := o.Registry.Get(msg.ChannelID); ok {
		channelName = string(ch.Name)
	}
	o.Notify.HandleMessage(msg, authorName, channelName)
}

// Bootstrap loads the channel list, memberships and presence snapshot
// after login, registering every channel for push sends.
func (o *Orchestrator) Bootstrap(ctx context.Context) error {
	channels, err := o.API.ListChannels(ctx)
	if err != nil {
		return err
	}
	for _, ch := range channels {
		o.Registry.Adopt(ch)
		o.Transport.Join(ch.ID)
		members, err := o.API.ChannelMembers(ctx, ch.ID)
		if err != nil {
			log.Warn().Str("module", "app").Str("channel", string(ch.ID)).Err(err).Msg("member list fetch failed")
			continue
		}
		for _, u := range members {
			o.Registry.RegisterUser(u)
		}
	}

	statuses, err := o.API.AllStatuses(ctx)
	if err != nil {
		log.Warn().Str("module", "app").Err(err).Msg("presence snapshot fetch failed")
	} else {
		o.Presence.Replace(statuses)
	}
	log.Info().Str("module", "app").Int("channels", len(channels)).Msg("bootstrap complete")
	return nil
}
