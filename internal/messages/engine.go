// Package messages owns the per-channel message logs, read receipts,
// pinned sets and search results. State changes land here only from
// authority confirmations or push events; the engine reconciles both
// through the same identifier-keyed upserts.
package messages

import (
	"sort"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/chatzone/chatsync/internal/domain"
)

type Engine struct {
	clock clockwork.Clock

	mu       sync.RWMutex
	logs     map[domain.ChannelID]map[domain.MessageID]*domain.Message
	receipts map[domain.MessageID][]domain.ReadReceipt
	pins     map[domain.ChannelID][]domain.PinEntry
	search   map[domain.ChannelID][]*domain.Message
	cursors  map[domain.ChannelID]domain.PageCursor
}

func NewEngine(clock clockwork.Clock) *Engine {
	return &Engine{
		clock:    clock,
		logs:     make(map[domain.ChannelID]map[domain.MessageID]*domain.Message),
		receipts: make(map[domain.MessageID][]domain.ReadReceipt),
		pins:     make(map[domain.ChannelID][]domain.PinEntry),
		search:   make(map[domain.ChannelID][]*domain.Message),
		cursors:  make(map[domain.ChannelID]domain.PageCursor),
	}
}

// Upsert reconciles one message by identifier: an id already present is
// updated in place, anything else is appended. List position never
// matters; Sorted orders by creation time on read.
func (e *Engine) Upsert(m *domain.Message) {
	if m == nil || m.ID == "" || m.ChannelID == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.upsertLocked(m)
}

func (e *Engine) upsertLocked(m *domain.Message) {
	channel := e.logs[m.ChannelID]
	if channel == nil {
		channel = make(map[domain.MessageID]*domain.Message)
		e.logs[m.ChannelID] = channel
	}
	channel[m.ID] = m
}

// ApplyDelete tombstones a message in place. Missing messages are a
// no-op: the push bus may reference entries outside the loaded window.
func (e *Engine) ApplyDelete(channelID domain.ChannelID, id domain.MessageID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if m, ok := e.logs[channelID][id]; ok && !m.Deleted {
		m.Tombstone(e.clock.Now())
	}
}

// ReplaceWindow installs one fetched page as the in-memory window for
// the channel. No client-side merging across pages happens here.
func (e *Engine) ReplaceWindow(channelID domain.ChannelID, msgs []*domain.Message, cursor domain.PageCursor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	window := make(map[domain.MessageID]*domain.Message, len(msgs))
	for _, m := range msgs {
		if m == nil || m.ID == "" {
			continue
		}
		if m.ChannelID == "" {
			m.ChannelID = channelID
		}
		window[m.ID] = m
	}
	e.logs[channelID] = window
	e.cursors[channelID] = cursor
}

func (e *Engine) Cursor(channelID domain.ChannelID) domain.PageCursor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors[channelID]
}

// Get looks one message up by id.
func (e *Engine) Get(channelID domain.ChannelID, id domain.MessageID) (*domain.Message, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	m, ok := e.logs[channelID][id]
	return m, ok
}

// Sorted returns the channel's messages ordered by creation timestamp
// ascending. It is recomputed on every read; arrival order is
// irrelevant.
func (e *Engine) Sorted(channelID domain.ChannelID) []*domain.Message {
	e.mu.RLock()
	defer e.mu.RUnlock()
	channel := e.logs[channelID]
	out := make([]*domain.Message, 0, len(channel))
	for _, m := range channel {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// DropChannel discards every store keyed by a deleted channel.
func (e *Engine) DropChannel(channelID domain.ChannelID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id := range e.logs[channelID] {
		delete(e.receipts, id)
	}
	delete(e.logs, channelID)
	delete(e.pins, channelID)
	delete(e.search, channelID)
	delete(e.cursors, channelID)
	log.Debug().Str("module", "messages").Str("channel", string(channelID)).Msg("channel state dropped")
}
