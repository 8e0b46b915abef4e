// Package transport owns the persistent push connection. It normalizes
// connection lifecycle and the deployment's wire framing into the
// internal event bus; nothing above it ever sees a raw frame.
package transport

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/chatzone/chatsync/internal/apperr"
	"github.com/chatzone/chatsync/internal/domain"
)

// State mirrors the observable connection lifecycle. Changes are
// surfaced through OnState callbacks and never panic into caller code.
type State string

const (
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
	StateError        State = "error"
)

var ErrBackpressure = errors.New("backpressure")

// CredentialSource supplies the auth token for (re)connection. It is
// read fresh on every dial, so a credential change only needs the
// current socket torn down to take effect.
type CredentialSource interface {
	Token() string
}

type Options struct {
	URL        string
	ReadLimit  int64
	PingPeriod time.Duration
	// MaxBackoff caps the reconnect delay; retries never stop.
	MaxBackoff time.Duration
}

type Adapter struct {
	opts  Options
	codec WireCodec
	creds CredentialSource
	bus   *Bus

	mu        sync.RWMutex
	joined    map[domain.ChannelID]struct{}
	send      chan []byte
	connected bool
	state     State
	stateSubs []func(State)

	// closed by Reauth to force the run loop onto a fresh dial
	reauth chan struct{}
}

func NewAdapter(opts Options, codec WireCodec, creds CredentialSource, bus *Bus) *Adapter {
	if opts.PingPeriod <= 0 {
		opts.PingPeriod = 54 * time.Second
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 30 * time.Second
	}
	return &Adapter{
		opts:   opts,
		codec:  codec,
		creds:  creds,
		bus:    bus,
		joined: make(map[domain.ChannelID]struct{}),
		send:   make(chan []byte, 32),
		state:  StateDisconnected,
		reauth: make(chan struct{}, 1),
	}
}

func (a *Adapter) Bus() *Bus { return a.bus }

// OnState registers an observer for connection-state changes.
func (a *Adapter) OnState(fn func(State)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stateSubs = append(a.stateSubs, fn)
}

func (a *Adapter) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *Adapter) setState(s State) {
	a.mu.Lock()
	if a.state == s {
		a.mu.Unlock()
		return
	}
	a.state = s
	subs := a.stateSubs
	a.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

// Join registers a channel for outbound sends. Registration is local;
// the authority routes pushes by credential, so nothing is sent on the
// wire and the set survives reconnects untouched.
func (a *Adapter) Join(id domain.ChannelID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.joined[id] = struct{}{}
}

func (a *Adapter) Leave(id domain.ChannelID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.joined, id)
}

func (a *Adapter) Joined(id domain.ChannelID) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.joined[id]
	return ok
}

// Send frames an outbound event for a registered channel. Sends to an
// unregistered channel fail with NotSubscribed and are not queued.
func (a *Adapter) Send(id domain.ChannelID, kind domain.EventKind, payload any) error {
	if !a.Joined(id) {
		return apperr.ErrNotJoined
	}
	data, err := a.codec.Encode(id, kind, payload)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "encode frame", err)
	}

	a.mu.RLock()
	connected := a.connected
	a.mu.RUnlock()
	if !connected {
		return apperr.ErrConnectionClosed
	}
	select {
	case a.send <- data:
		return nil
	default:
		return apperr.Transient("send buffer full", ErrBackpressure)
	}
}

// Reauth tears down the current socket so the run loop re-dials with
// the credential source's current token. Joined registrations and bus
// subscriptions are untouched.
func (a *Adapter) Reauth() {
	select {
	case a.reauth <- struct{}{}:
	default:
	}
}

// Run drives the connection until ctx is cancelled: dial with capped
// exponential backoff, pump frames, reconnect on any failure.
func (a *Adapter) Run(ctx context.Context) {
	for {
		conn, err := a.dial(ctx)
		if err != nil {
			// only a cancelled context stops the retry loop
			a.setState(StateDisconnected)
			return
		}
		a.pump(ctx, conn)
		a.setState(StateDisconnected)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (a *Adapter) dial(ctx context.Context) (*websocket.Conn, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = a.opts.MaxBackoff
	bo.MaxElapsedTime = 0 // infinite retries

	var conn *websocket.Conn
	op := func() error {
		a.setState(StateConnecting)
		// a re-auth posted before this point is satisfied by this dial;
		// the drain precedes the token read so a signal racing the dial
		// stays queued and tears the new socket down
		select {
		case <-a.reauth:
		default:
		}
		token := a.creds.Token()
		header := http.Header{}
		if token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
		c, _, err := websocket.DefaultDialer.DialContext(ctx, a.opts.URL, header)
		if err != nil {
			log.Warn().Str("module", "transport").Err(err).Msg("dial failed, will retry")
			a.setState(StateError)
			return err
		}
		conn = c
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	if a.opts.ReadLimit > 0 {
		conn.SetReadLimit(a.opts.ReadLimit)
	}
	log.Info().Str("module", "transport").Str("url", a.opts.URL).Msg("push connection established")
	return conn, nil
}

// pump runs both directions until the socket dies, ctx is cancelled or
// a re-auth is requested, then closes the socket exactly once.
func (a *Adapter) pump(ctx context.Context, conn *websocket.Conn) {
	a.mu.Lock()
	a.connected = true
	a.mu.Unlock()
	// the flag precedes the state change so a Send fired from a state
	// observer is accepted
	a.setState(StateConnected)

	done := make(chan struct{})
	go a.writePump(ctx, conn, done)
	a.readPump(conn)

	a.mu.Lock()
	a.connected = false
	a.mu.Unlock()
	close(done)
	_ = conn.Close()
}
