package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/chatzone/chatsync/internal/api"
	"github.com/chatzone/chatsync/internal/app"
	"github.com/chatzone/chatsync/internal/apperr"
	"github.com/chatzone/chatsync/internal/domain"
	"github.com/chatzone/chatsync/internal/messages"
	"github.com/chatzone/chatsync/internal/notify"
	"github.com/chatzone/chatsync/internal/notify/mocks"
	"github.com/chatzone/chatsync/internal/presence"
	"github.com/chatzone/chatsync/internal/registry"
	"github.com/chatzone/chatsync/internal/session"
	"github.com/chatzone/chatsync/internal/transport"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	selfID   = domain.UserID("u-alice")
	otherID  = domain.UserID("u-bob")
	selfName = "alice"
)

type fixture struct {
	orch  *app.Orchestrator
	clock *clockwork.FakeClock
	bus   *transport.Bus
}

// newFixture wires an orchestrator against a test authority, already
// logged in as alice.
func newFixture(t *testing.T, setup func(*gin.Engine)) *fixture {
	t.Helper()
	router := gin.New()
	if setup != nil {
		setup(router)
	}
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	clock := clockwork.NewFakeClock()
	store := session.NewStore(afero.NewMemMapFs(), "/session.json")
	store.SetSession(&domain.User{ID: selfID, Nickname: selfName}, "tok")

	bus := transport.NewBus()
	adapter := transport.NewAdapter(transport.Options{URL: "ws://unused"}, transport.CodecFor("envelope"), store, bus)
	reg := registry.New(selfID, clock, registry.Options{})
	reg.RegisterUser(&domain.User{ID: selfID, Nickname: selfName})
	reg.RegisterUser(&domain.User{ID: otherID, Nickname: "bob"})

	orch := &app.Orchestrator{
		API:       api.NewClient(srv.URL, store),
		Session:   store,
		Registry:  reg,
		Messages:  messages.NewEngine(clock),
		Presence:  presence.NewTracker(),
		Transport: adapter,
	}
	orch.BindBus()
	return &fixture{orch: orch, clock: clock, bus: bus}
}

func adoptChannel(f *fixture, id domain.ChannelID, name string) *domain.Channel {
	ch := &domain.Channel{
		ID:        id,
		Name:      domain.ChannelName(name),
		Type:      domain.ChannelPublic,
		AdminID:   selfID,
		Members:   []domain.UserID{selfID, otherID},
		CreatedAt: f.clock.Now(),
	}
	f.orch.Registry.Adopt(ch)
	return ch
}

func TestSendMessage(t *testing.T) {
	var calls atomic.Int32
	f := newFixture(t, func(r *gin.Engine) {
		r.POST("/channels/c1/messages", func(c *gin.Context) {
			calls.Add(1)
			var req struct {
				Content string `json:"content"`
			}
			require.NoError(t, c.BindJSON(&req))
			c.JSON(http.StatusCreated, gin.H{"message": gin.H{
				"id":         "m1",
				"channel_id": "c1",
				"author_id":  string(selfID),
				"content":    req.Content,
				"created_at": "2025-06-01T12:00:00Z",
			}})
		})
	})
	adoptChannel(f, "c1", "general")

	t.Run("confirmed message is appended", func(t *testing.T) {
		msg, err := f.orch.SendMessage(context.Background(), "c1", "hello")
		require.NoError(t, err)
		assert.Equal(t, domain.MessageID("m1"), msg.ID)

		sorted := f.orch.Messages.Sorted("c1")
		require.Len(t, sorted, 1, "exactly one copy, no optimistic echo")
		assert.Equal(t, "hello", sorted[0].Content)
	})

	t.Run("push repeat of the same id reconciles", func(t *testing.T) {
		at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		f.bus.Publish(domain.Event{
			Kind:      domain.EventMessage,
			ChannelID: "c1",
			Message:   &domain.Message{ID: "m1", ChannelID: "c1", AuthorID: selfID, Content: "hello", CreatedAt: at},
		})
		assert.Len(t, f.orch.Messages.Sorted("c1"), 1)
	})

	t.Run("blank content refused without a request", func(t *testing.T) {
		before := calls.Load()
		_, err := f.orch.SendMessage(context.Background(), "c1", "   ")
		assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
		assert.Equal(t, before, calls.Load())
	})

	t.Run("unknown channel refused", func(t *testing.T) {
		_, err := f.orch.SendMessage(context.Background(), "nope", "hi")
		assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	})
}

func TestJoinChannelGetOrCreate(t *testing.T) {
	var calls atomic.Int32
	f := newFixture(t, func(r *gin.Engine) {
		r.POST("/channels", func(c *gin.Context) {
			calls.Add(1)
			var req struct {
				Name string `json:"name"`
				Type string `json:"type"`
			}
			require.NoError(t, c.BindJSON(&req))
			switch req.Name {
			case "other":
				// existing channel; the authority adds the caller
				c.JSON(http.StatusOK, gin.H{"channel": gin.H{
					"id":       "c2",
					"name":     req.Name,
					"type":     req.Type,
					"admin_id": string(otherID),
					"members":  []string{string(otherID), string(selfID)},
				}})
			default:
				c.JSON(http.StatusCreated, gin.H{"channel": gin.H{
					"id":       "c-new",
					"name":     req.Name,
					"type":     req.Type,
					"admin_id": string(selfID),
					"members":  []string{string(selfID)},
				}})
			}
		})
	})

	t.Run("absent name creates through the authority", func(t *testing.T) {
		res, err := f.orch.JoinChannel(context.Background(), "fresh", domain.ChannelPublic)
		require.NoError(t, err)
		assert.True(t, res.Created)
		assert.Equal(t, domain.ChannelID("c-new"), res.Channel.ID)
		assert.True(t, f.orch.Registry.IsAdmin("c-new", selfID))
		assert.True(t, f.orch.Transport.Joined("c-new"))
	})

	t.Run("existing channel joins after authority confirms", func(t *testing.T) {
		f.orch.Registry.Adopt(&domain.Channel{
			ID: "c2", Name: "other", Type: domain.ChannelPublic,
			AdminID: otherID, Members: []domain.UserID{otherID},
		})
		before := calls.Load()
		res, err := f.orch.JoinChannel(context.Background(), "other", domain.ChannelPublic)
		require.NoError(t, err)
		assert.False(t, res.Created)
		assert.Equal(t, before+1, calls.Load(), "membership change goes through the authority")
		assert.True(t, f.orch.Registry.IsMember("c2", selfID))
		assert.True(t, f.orch.Transport.Joined("c2"))
	})

	t.Run("repeat join is a local no-op", func(t *testing.T) {
		before := calls.Load()
		res, err := f.orch.JoinChannel(context.Background(), "other", domain.ChannelPublic)
		require.NoError(t, err)
		assert.False(t, res.Created)
		assert.Equal(t, before, calls.Load())
	})

	t.Run("banned caller refused without a request", func(t *testing.T) {
		f.orch.Registry.Adopt(&domain.Channel{
			ID: "c3", Name: "walled", Type: domain.ChannelPublic,
			AdminID: otherID, Members: []domain.UserID{otherID},
			Banned: []domain.UserID{selfID},
		})
		before := calls.Load()
		_, err := f.orch.JoinChannel(context.Background(), "walled", domain.ChannelPublic)
		assert.Equal(t, apperr.CodeBanned, apperr.CodeOf(err))
		assert.Equal(t, before, calls.Load())
	})
}

func TestLeaveChannelAdminCascade(t *testing.T) {
	f := newFixture(t, func(r *gin.Engine) {
		r.POST("/channels/c1/leave", func(c *gin.Context) { c.Status(http.StatusOK) })
	})
	adoptChannel(f, "c1", "doomed")
	f.orch.Transport.Join("c1")
	f.orch.Messages.Upsert(&domain.Message{ID: "m1", ChannelID: "c1", AuthorID: otherID, Content: "x", CreatedAt: f.clock.Now()})

	require.NoError(t, f.orch.LeaveChannel(context.Background(), "c1"))

	_, ok := f.orch.Registry.Get("c1")
	assert.False(t, ok, "admin departure removes the channel")
	assert.Empty(t, f.orch.Messages.Sorted("c1"))
	assert.False(t, f.orch.Transport.Joined("c1"))

	t.Run("second leave reports missing channel", func(t *testing.T) {
		err := f.orch.LeaveChannel(context.Background(), "c1")
		assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	})
}

func TestQuitChannelAdminOnly(t *testing.T) {
	f := newFixture(t, func(r *gin.Engine) {
		r.POST("/channels/c2/leave", func(c *gin.Context) { c.Status(http.StatusOK) })
	})
	f.orch.Registry.Adopt(&domain.Channel{
		ID: "c2", Name: "theirs", Type: domain.ChannelPublic,
		AdminID: otherID, Members: []domain.UserID{otherID, selfID},
	})

	err := f.orch.QuitChannel(context.Background(), "c2")
	assert.Equal(t, apperr.CodeNotAuthorized, apperr.CodeOf(err))
	_, ok := f.orch.Registry.Get("c2")
	assert.True(t, ok)
}

func TestBusRouting(t *testing.T) {
	f := newFixture(t, nil)
	adoptChannel(f, "c1", "general")
	at := f.clock.Now()

	t.Run("message updates log and activity", func(t *testing.T) {
		f.bus.Publish(domain.Event{
			Kind:      domain.EventMessage,
			ChannelID: "c1",
			Message:   &domain.Message{ID: "m1", ChannelID: "c1", AuthorID: otherID, Content: "hi", CreatedAt: at},
		})
		require.Len(t, f.orch.Messages.Sorted("c1"), 1)
	})

	t.Run("typing decays", func(t *testing.T) {
		f.bus.Publish(domain.Event{Kind: domain.EventTyping, ChannelID: "c1", UserID: otherID, Typing: true})
		assert.Equal(t, []domain.UserID{otherID}, f.orch.Registry.TypingUsers("c1"))
		f.clock.Advance(6 * time.Second)
		assert.Empty(t, f.orch.Registry.TypingUsers("c1"))
	})

	t.Run("presence applies valid statuses only", func(t *testing.T) {
		f.bus.Publish(domain.Event{Kind: domain.EventPresence, ChannelID: "c1", UserID: otherID, Status: domain.StatusAway})
		assert.Equal(t, domain.StatusAway, f.orch.Presence.Status(otherID))
	})

	t.Run("pin and receipt land in the engine", func(t *testing.T) {
		f.bus.Publish(domain.Event{Kind: domain.EventPin, ChannelID: "c1", MessageID: "m1", UserID: otherID, Pinned: true})
		assert.True(t, f.orch.Messages.IsPinned("c1", "m1"))

		f.bus.Publish(domain.Event{
			Kind: domain.EventReadReceipt, ChannelID: "c1", MessageID: "m1",
			Receipt: &domain.ReadReceipt{UserID: otherID, ReadAt: at},
		})
		assert.True(t, f.orch.Messages.HasRead("m1", otherID))
	})

	t.Run("admin leave event cascades", func(t *testing.T) {
		f.bus.Publish(domain.Event{Kind: domain.EventLeave, ChannelID: "c1", UserID: selfID})
		_, ok := f.orch.Registry.Get("c1")
		assert.False(t, ok)
		assert.Empty(t, f.orch.Messages.Sorted("c1"))
	})
}

func TestNotificationFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	prefs := mocks.NewMockPrefs(ctrl)
	vis := mocks.NewMockVisibility(ctrl)
	perms := mocks.NewMockPermissions(ctrl)
	renderer := mocks.NewMockRenderer(ctrl)

	f := newFixture(t, nil)
	f.orch.Notify = notify.NewDispatcher(f.orch.Session.User, prefs, vis, perms, renderer, f.clock)
	adoptChannel(f, "c1", "general")

	remote := func(content string) domain.Event {
		return domain.Event{
			Kind:      domain.EventMessage,
			ChannelID: "c1",
			Message:   &domain.Message{ID: domain.MessageID("m-" + content), ChannelID: "c1", AuthorID: otherID, Content: content, CreatedAt: f.clock.Now()},
		}
	}

	t.Run("hidden app alerts with resolved names", func(t *testing.T) {
		vis.EXPECT().Visible().Return(false)
		prefs.EXPECT().NotifyMode().Return(domain.NotifyAll)
		perms.EXPECT().Current().Return(notify.PermissionGranted)
		var shown notify.Notification
		renderer.EXPECT().Show(gomock.Any()).Do(func(n notify.Notification) { shown = n })

		f.bus.Publish(remote("hello"))
		assert.Equal(t, "bob in #general", shown.Title)
		assert.Equal(t, "hello", shown.Body)
	})

	t.Run("visible app stays quiet", func(t *testing.T) {
		vis.EXPECT().Visible().Return(true)
		f.bus.Publish(remote("again"))
	})

	t.Run("own confirmed sends never alert", func(t *testing.T) {
		f.bus.Publish(domain.Event{
			Kind:      domain.EventMessage,
			ChannelID: "c1",
			Message:   &domain.Message{ID: "m-self", ChannelID: "c1", AuthorID: selfID, Content: "mine", CreatedAt: f.clock.Now()},
		})
	})
}

func TestSetStatusRequiresLogin(t *testing.T) {
	f := newFixture(t, nil)
	f.orch.Session.Clear()
	err := f.orch.SetStatus(context.Background(), domain.StatusAway)
	assert.Equal(t, apperr.CodeNotAuthorized, apperr.CodeOf(err))
}

func TestBootstrap(t *testing.T) {
	f := newFixture(t, func(r *gin.Engine) {
		r.GET("/channels", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"channels": []gin.H{
				{"id": "c1", "name": "general", "type": "public", "admin_id": string(otherID), "members": []string{string(otherID), string(selfID)}},
			}})
		})
		r.GET("/channels/c1/members", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"members": []gin.H{
				{"id": string(otherID), "nickname": "bob"},
				{"id": string(selfID), "nickname": selfName},
			}})
		})
		r.GET("/users/statuses", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"statuses": gin.H{string(otherID): "online"}})
		})
	})

	require.NoError(t, f.orch.Bootstrap(context.Background()))
	ch, ok := f.orch.Registry.Get("c1")
	require.True(t, ok)
	assert.Equal(t, domain.ChannelName("general"), ch.Name)
	assert.True(t, f.orch.Transport.Joined("c1"))
	u, ok := f.orch.Registry.UserByID(otherID)
	require.True(t, ok)
	assert.Equal(t, "bob", u.Nickname)
	assert.Equal(t, domain.StatusOnline, f.orch.Presence.Status(otherID))
}
