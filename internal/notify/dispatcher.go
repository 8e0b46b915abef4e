// Package notify decides whether an inbound message becomes a
// user-visible alert. The platform pieces (visibility, permission
// prompt, rendering) sit behind interfaces; the policy lives here.
package notify

//go:generate mockgen -source=dispatcher.go -destination=mocks/mocks.go -package=mocks

import (
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/chatzone/chatsync/internal/domain"
)

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

const (
	previewLimit    = 100
	dismissAfter    = 5 * time.Second
	channelTagStem  = "channel-"
	previewEllipsis = "..."
)

// Visibility reports whether the application is currently visible to
// the user.
type Visibility interface {
	Visible() bool
}

// Permissions exposes the platform notification permission state. The
// dispatcher prompts at most once per session when the state is
// undetermined.
type Permissions interface {
	Current() Permission
	Request() Permission
}

// Notification is one rendered alert. Tag groups repeats from the same
// channel so they coalesce instead of stacking.
type Notification struct {
	Title string
	Body  string
	Tag   string
}

// Renderer draws and removes platform notifications.
type Renderer interface {
	Show(n Notification)
	Dismiss(tag string)
}

// Prefs supplies the user-level notification mode; the session store
// implements it.
type Prefs interface {
	NotifyMode() domain.NotifyMode
}

// pendingDismiss is the scheduled expiry of one shown notification. The
// generation ties a timer callback to the entry it was armed for, so a
// coalesced or user-dismissed notification never gets a stale dismiss.
type pendingDismiss struct {
	deadline time.Time
	gen      uint64
}

type Dispatcher struct {
	self     func() *domain.User
	prefs    Prefs
	vis      Visibility
	perms    Permissions
	renderer Renderer
	clock    clockwork.Clock

	mu       sync.Mutex
	prompted bool
	gen      uint64
	pending  map[string]pendingDismiss
}

// NewDispatcher builds a dispatcher. The session user is read through a
// function so login and logout are picked up without rewiring.
func NewDispatcher(self func() *domain.User, prefs Prefs, vis Visibility, perms Permissions, renderer Renderer, clock clockwork.Clock) *Dispatcher {
	return &Dispatcher{
		self:     self,
		prefs:    prefs,
		vis:      vis,
		perms:    perms,
		renderer: renderer,
		clock:    clock,
		pending:  make(map[string]pendingDismiss),
	}
}

// HandleMessage evaluates one new inbound message. Locally sent
// messages are excluded by the author check; a visible application
// suppresses regardless of permission state.
func (d *Dispatcher) HandleMessage(msg *domain.Message, authorName, channelName string) {
	self := d.self()
	if msg == nil || self == nil || msg.AuthorID == self.ID {
		return
	}
	if d.vis.Visible() {
		return
	}

	switch d.prefs.NotifyMode() {
	case domain.NotifyNone:
		return
	case domain.NotifyMentions:
		if !strings.Contains(msg.Content, self.MentionToken()) {
			return
		}
	}

	if !d.permitted() {
		return
	}

	title := authorName + " in #" + channelName
	d.show(Notification{
		Title: title,
		Body:  truncate(msg.Content, previewLimit),
		Tag:   channelTagStem + string(msg.ChannelID),
	})
}

// permitted resolves the platform permission: granted passes, denied
// suppresses silently, undetermined prompts exactly once.
func (d *Dispatcher) permitted() bool {
	switch d.perms.Current() {
	case PermissionGranted:
		return true
	case PermissionDenied:
		return false
	}

	d.mu.Lock()
	alreadyPrompted := d.prompted
	d.prompted = true
	d.mu.Unlock()
	if alreadyPrompted {
		return false
	}
	return d.perms.Request() == PermissionGranted
}

// show renders the notification and schedules its expiry. Repeats from
// the same channel replace the pending entry, so the earlier timer's
// callback finds a newer generation and does nothing.
func (d *Dispatcher) show(n Notification) {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.pending[n.Tag] = pendingDismiss{deadline: d.clock.Now().Add(dismissAfter), gen: gen}
	d.mu.Unlock()

	d.clock.AfterFunc(dismissAfter, func() { d.expire(n.Tag, gen) })

	d.renderer.Show(n)
	log.Debug().Str("module", "notify").Str("tag", n.Tag).Msg("notification rendered")
}

// expire dismisses a notification whose scheduled deadline has passed.
// The timer is only the trigger; the pending entry decides whether the
// dismiss still applies.
func (d *Dispatcher) expire(tag string, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[tag]
	if !ok || p.gen != gen || d.clock.Now().Before(p.deadline) {
		d.mu.Unlock()
		return
	}
	delete(d.pending, tag)
	d.mu.Unlock()
	d.renderer.Dismiss(tag)
}

// Active reports whether a notification with this tag is still inside
// its display window.
func (d *Dispatcher) Active(tag string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pending[tag]
	return ok && d.clock.Now().Before(p.deadline)
}

// Dismissed tells the dispatcher the user closed a notification, so
// the pending auto-dismiss becomes a no-op.
func (d *Dispatcher) Dismissed(tag string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, tag)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + previewEllipsis
}
