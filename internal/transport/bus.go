package transport

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/chatzone/chatsync/internal/domain"
)

// Bus is the internal push-event stream. Consumers subscribe by kind;
// the adapter publishes normalized events in wire-arrival order, so
// per-channel ordering on the socket is preserved downstream.
type Bus struct {
	mu   sync.RWMutex
	subs map[domain.EventKind][]func(domain.Event)
	all  []func(domain.Event)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[domain.EventKind][]func(domain.Event))}
}

func (b *Bus) Subscribe(kind domain.EventKind, fn func(domain.Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[kind] = append(b.subs[kind], fn)
}

// SubscribeAll registers a handler for every event kind.
func (b *Bus) SubscribeAll(fn func(domain.Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, fn)
}

// Publish runs handlers synchronously on the caller's goroutine; the
// read pump is the only publisher, which is what keeps events applied
// in arrival order.
func (b *Bus) Publish(ev domain.Event) {
	b.mu.RLock()
	handlers := b.subs[ev.Kind]
	all := b.all
	b.mu.RUnlock()

	if len(handlers) == 0 && len(all) == 0 {
		log.Debug().Str("module", "transport.bus").Str("kind", string(ev.Kind)).Msg("event with no subscribers")
	}
	for _, fn := range handlers {
		fn(ev)
	}
	for _, fn := range all {
		fn(ev)
	}
}
