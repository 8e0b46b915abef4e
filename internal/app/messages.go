package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/chatzone/chatsync/internal/apperr"
	"github.com/chatzone/chatsync/internal/domain"
)

// SendMessage issues the send to the authority and appends the
// confirmed message. There is no optimistic echo: ordering is decided
// by the authoritative timestamp, and the engine reconciles by id if
// the push event for the same message lands first.
func (o *Orchestrator) SendMessage(ctx context.Context, id domain.ChannelID, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.ErrEmptyMessage
	}
	if _, ok := o.Registry.Get(id); !ok {
		return nil, apperr.ErrChannelNotFound
	}
	msg, err := o.API.SendMessage(ctx, id, content)
	if err != nil {
		return nil, err
	}
	if msg.ChannelID == "" {
		msg.ChannelID = id
	}
	o.Messages.Upsert(msg)
	o.Registry.Touch(id)
	return msg, nil
}

// EditMessage applies the server-returned canonical post-edit state by
// identifier; it does not matter whether this client initiated the
// edit or a push event later repeats it.
func (o *Orchestrator) EditMessage(ctx context.Context, id domain.MessageID, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.ErrEmptyMessage
	}
	msg, err := o.API.EditMessage(ctx, id, content)
	if err != nil {
		return nil, err
	}
	o.Messages.Upsert(msg)
	return msg, nil
}

// DeleteMessage tombstones by identifier, preferring the authority's
// canonical post-delete state when it returns one.
func (o *Orchestrator) DeleteMessage(ctx context.Context, channelID domain.ChannelID, id domain.MessageID) error {
	msg, err := o.API.DeleteMessage(ctx, id)
	if err != nil {
		return err
	}
	if msg != nil {
		if msg.ChannelID == "" {
			msg.ChannelID = channelID
		}
		o.Messages.Upsert(msg)
		return nil
	}
	o.Messages.ApplyDelete(channelID, id)
	return nil
}

// LoadMessages fetches one page and replaces the channel's in-memory
// window with it.
func (o *Orchestrator) LoadMessages(ctx context.Context, id domain.ChannelID, page int) ([]*domain.Message, error) {
	if _, ok := o.Registry.Get(id); !ok {
		return nil, apperr.ErrChannelNotFound
	}
	mp, err := o.API.LoadMessages(ctx, id, page)
	if err != nil {
		return nil, err
	}
	o.Messages.ReplaceWindow(id, mp.Messages, domain.PageCursor{
		Page:     mp.Page,
		HasMore:  mp.HasMore,
		PageSize: mp.PageSize,
	})
	return o.Messages.Sorted(id), nil
}

// MarkAsRead is fire-and-acknowledge: the local receipt index changes
// only when a confirmed or broadcast receipt arrives on the bus.
func (o *Orchestrator) MarkAsRead(ctx context.Context, id domain.MessageID) error {
	return o.API.MarkRead(ctx, id)
}

func (o *Orchestrator) MarkManyAsRead(ctx context.Context, ids []domain.MessageID) error {
	if len(ids) == 0 {
		return nil
	}
	return o.API.MarkReadBatch(ctx, ids)
}

// PinMessage pins after confirmation; the engine keeps the operation
// idempotent against duplicate entries.
func (o *Orchestrator) PinMessage(ctx context.Context, channelID domain.ChannelID, id domain.MessageID) error {
	self := o.selfID()
	if self == "" {
		return apperr.ErrNotLoggedIn
	}
	if err := o.API.PinMessage(ctx, id); err != nil {
		return err
	}
	o.Messages.Pin(channelID, id, self)
	return nil
}

func (o *Orchestrator) UnpinMessage(ctx context.Context, channelID domain.ChannelID, id domain.MessageID) error {
	if err := o.API.UnpinMessage(ctx, id); err != nil {
		return err
	}
	o.Messages.Unpin(channelID, id)
	return nil
}

// SearchMessages populates the channel's separate result set; the
// primary log is never touched.
func (o *Orchestrator) SearchMessages(ctx context.Context, id domain.ChannelID, query string, page int) ([]*domain.Message, error) {
	mp, err := o.API.SearchMessages(ctx, id, query, page)
	if err != nil {
		return nil, err
	}
	o.Messages.SetSearchResults(id, mp.Messages)
	return mp.Messages, nil
}

func logSendFailure(id domain.ChannelID, err error) {
	log.Warn().Str("module", "app").Str("channel", string(id)).Err(err).Msg("outbound frame not sent")
}
