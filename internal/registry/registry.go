// Package registry is the authoritative in-memory table of channels,
// memberships, ban lists, kick votes, invite markers and deletion name
// locks. All mutation goes through its commands; other components read
// by identifier only. One Registry is built per session and passed
// explicitly to whoever needs it.
package registry

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/chatzone/chatsync/internal/apperr"
	"github.com/chatzone/chatsync/internal/domain"
)

const (
	// KickVoteThreshold is the number of distinct non-admin voters
	// needed to convert a kick vote into a ban on a public channel.
	KickVoteThreshold = 3

	maxChannelNameLen = 64
	typingWindow      = 5 * time.Second
)

type Options struct {
	InviteMarkerTTL time.Duration
	NameLockTTL     time.Duration
}

type voteKey struct {
	channel domain.ChannelID
	target  domain.UserID
}

type Registry struct {
	self  domain.UserID
	clock clockwork.Clock
	opts  Options

	mu        sync.RWMutex
	byID      map[domain.ChannelID]*domain.Channel
	users     map[domain.UserID]*domain.User
	kickVotes map[voteKey]map[domain.UserID]struct{}
	// invite markers and name locks hold expiry deadlines; reads compare
	// against the clock, the same way typing indicators decay
	invites   map[domain.ChannelID]time.Time
	nameLocks map[string]time.Time
	typing    map[domain.ChannelID]map[domain.UserID]time.Time
}

func New(self domain.UserID, clock clockwork.Clock, opts Options) *Registry {
	if opts.InviteMarkerTTL <= 0 {
		opts.InviteMarkerTTL = 24 * time.Hour
	}
	if opts.NameLockTTL <= 0 {
		opts.NameLockTTL = 7 * 24 * time.Hour
	}
	return &Registry{
		self:      self,
		clock:     clock,
		opts:      opts,
		byID:      make(map[domain.ChannelID]*domain.Channel),
		users:     make(map[domain.UserID]*domain.User),
		kickVotes: make(map[voteKey]map[domain.UserID]struct{}),
		invites:   make(map[domain.ChannelID]time.Time),
		nameLocks: make(map[string]time.Time),
		typing:    make(map[domain.ChannelID]map[domain.UserID]time.Time),
	}
}

// RegisterUser records a user in the session's directory. Membership
// commands that name an unknown user fail, so the directory is fed from
// channel member lists and join events.
func (r *Registry) RegisterUser(u *domain.User) {
	if u == nil || u.ID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *Registry) UserByID(id domain.UserID) (*domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok
}

// Adopt inserts or replaces a channel as the authority reported it.
func (r *Registry) Adopt(ch *domain.Channel) {
	if ch == nil || ch.ID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[ch.ID] = ch
}

func (r *Registry) Get(id domain.ChannelID) (*domain.Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.byID[id]
	return ch, ok
}

func (r *Registry) byNameLocked(name string) *domain.Channel {
	lower := strings.ToLower(name)
	for _, ch := range r.byID {
		if strings.ToLower(string(ch.Name)) == lower {
			return ch
		}
	}
	return nil
}

// ByName finds a live channel by case-insensitive name.
func (r *Registry) ByName(name string) (*domain.Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch := r.byNameLocked(name)
	return ch, ch != nil
}

// nameLockActiveLocked reports whether a deletion lock on the lowercased
// name is still inside its cooldown. Expired entries are ignored here and
// collected on the next write-path touch.
func (r *Registry) nameLockActiveLocked(name string, now time.Time) bool {
	deadline, ok := r.nameLocks[strings.ToLower(name)]
	return ok && now.Before(deadline)
}

// IsNameAvailable consults both the live-channel set and the deletion
// name locks.
func (r *Registry) IsNameAvailable(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.byNameLocked(name) != nil {
		return false
	}
	return !r.nameLockActiveLocked(name, r.clock.Now())
}

// Create makes a new channel with the actor as sole member and admin.
func (r *Registry) Create(actor domain.UserID, name string, typ domain.ChannelType) (*domain.Channel, error) {
	if name == "" || len(name) > maxChannelNameLen {
		return nil, apperr.ErrInvalidChannel
	}
	if typ != domain.ChannelPublic && typ != domain.ChannelPrivate {
		typ = domain.ChannelPublic
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byNameLocked(name) != nil {
		return nil, apperr.ErrNameTaken
	}
	now := r.clock.Now()
	if r.nameLockActiveLocked(name, now) {
		return nil, apperr.ErrNameLocked
	}
	delete(r.nameLocks, strings.ToLower(name))

	ch := &domain.Channel{
		ID:           domain.ChannelID(uuid.NewString()),
		Name:         domain.ChannelName(name),
		Type:         typ,
		AdminID:      actor,
		Members:      []domain.UserID{actor},
		CreatedAt:    now,
		LastActivity: now,
	}
	r.byID[ch.ID] = ch
	log.Info().Str("module", "registry").Str("channel", string(ch.ID)).Str("name", name).Msg("channel created")
	return ch, nil
}

// JoinResult reports whether Join had to create the channel.
type JoinResult struct {
	Created bool
	Channel *domain.Channel
}

// Join is the idempotent get-or-create entry point: absent channels are
// created, banned callers are refused, existing members are a no-op.
func (r *Registry) Join(actor domain.UserID, name string, typ domain.ChannelType) (*JoinResult, error) {
	r.mu.Lock()
	exists := r.byNameLocked(name) != nil
	r.mu.Unlock()

	if !exists {
		created, err := r.Create(actor, name, typ)
		if err != nil {
			return nil, err
		}
		return &JoinResult{Created: true, Channel: created}, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	ch := r.byNameLocked(name)
	if ch == nil {
		// removed between checks; treat like the command racing a sweep
		return nil, apperr.ErrChannelNotFound
	}
	if ch.IsBanned(actor) {
		return nil, apperr.ErrBannedFromJoin
	}
	if ch.HasMember(actor) {
		return &JoinResult{Channel: ch}, nil
	}
	ch.Members = append(ch.Members, actor)
	ch.LastActivity = r.clock.Now()
	log.Info().Str("module", "registry").Str("channel", string(ch.ID)).Str("user", string(actor)).Msg("joined channel")
	return &JoinResult{Channel: ch}, nil
}

// ApplyMemberJoin merges a remote-origin join event. Unlike the command
// path it is tolerant: unknown channels are ignored (the channel list
// refresh will pick them up) and duplicates are no-ops.
func (r *Registry) ApplyMemberJoin(id domain.ChannelID, u domain.UserID, nickname string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.byID[id]
	if !ok || u == "" {
		return
	}
	if _, known := r.users[u]; !known && nickname != "" {
		r.users[u] = &domain.User{ID: u, Nickname: nickname}
	}
	if ch.HasMember(u) {
		return
	}
	r.unbanLocked(ch, u) // a broadcast join is authoritative
	ch.Members = append(ch.Members, u)
	ch.LastActivity = r.clock.Now()
	if u == r.self {
		r.markInviteLocked(id)
	}
}

// ApplyMemberLeave merges a remote-origin leave event.
func (r *Registry) ApplyMemberLeave(id domain.ChannelID, u domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.byID[id]
	if !ok || u == "" {
		return
	}
	if ch.AdminID == u {
		r.deleteLocked(id)
		return
	}
	r.removeMemberLocked(ch, u)
}

// Touch refreshes a channel's activity timestamp.
func (r *Registry) Touch(id domain.ChannelID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.byID[id]; ok {
		ch.LastActivity = r.clock.Now()
	}
}

func (r *Registry) IsMember(id domain.ChannelID, u domain.UserID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.byID[id]
	return ok && ch.HasMember(u)
}

func (r *Registry) IsBanned(id domain.ChannelID, u domain.UserID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.byID[id]
	return ok && ch.IsBanned(u)
}

func (r *Registry) IsAdmin(id domain.ChannelID, u domain.UserID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.byID[id]
	return ok && ch.AdminID == u
}

// ChannelsFor lists the channels a user belongs to. Channels carrying
// an active invite marker sort first; order is otherwise stable.
func (r *Registry) ChannelsFor(u domain.UserID) []*domain.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Channel, 0, len(r.byID))
	for _, ch := range r.byID {
		if ch.HasMember(u) {
			out = append(out, ch)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	now := r.clock.Now()
	sort.SliceStable(out, func(i, j int) bool {
		mi := r.inviteActiveLocked(out[i].ID, now)
		mj := r.inviteActiveLocked(out[j].ID, now)
		return mi && !mj
	})
	return out
}

// deleteLocked removes a channel and every piece of tracker state that
// referenced it. Callers hold the write lock.
func (r *Registry) deleteLocked(id domain.ChannelID) {
	delete(r.byID, id)
	for key := range r.kickVotes {
		if key.channel == id {
			delete(r.kickVotes, key)
		}
	}
	delete(r.invites, id)
	delete(r.typing, id)
	log.Info().Str("module", "registry").Str("channel", string(id)).Msg("channel deleted")
}
