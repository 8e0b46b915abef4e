package notify_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/chatzone/chatsync/internal/domain"
	"github.com/chatzone/chatsync/internal/notify"
	"github.com/chatzone/chatsync/internal/notify/mocks"
)

type fixture struct {
	prefs    *mocks.MockPrefs
	vis      *mocks.MockVisibility
	perms    *mocks.MockPermissions
	renderer *mocks.MockRenderer
	clock    *clockwork.FakeClock
	d        *notify.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		prefs:    mocks.NewMockPrefs(ctrl),
		vis:      mocks.NewMockVisibility(ctrl),
		perms:    mocks.NewMockPermissions(ctrl),
		renderer: mocks.NewMockRenderer(ctrl),
		clock:    clockwork.NewFakeClock(),
	}
	self := &domain.User{ID: "me", Nickname: "alice"}
	f.d = notify.NewDispatcher(func() *domain.User { return self }, f.prefs, f.vis, f.perms, f.renderer, f.clock)
	return f
}

func inbound(channel domain.ChannelID, author domain.UserID, content string) *domain.Message {
	return &domain.Message{ID: "m1", ChannelID: channel, AuthorID: author, Content: content}
}

func TestHandleMessageSuppression(t *testing.T) {
	t.Run("own messages never alert", func(t *testing.T) {
		f := newFixture(t)
		f.d.HandleMessage(inbound("c1", "me", "hi"), "alice", "general")
	})

	t.Run("visible application suppresses", func(t *testing.T) {
		f := newFixture(t)
		f.vis.EXPECT().Visible().Return(true)
		f.d.HandleMessage(inbound("c1", "bob", "hi"), "bob", "general")
	})

	t.Run("mode none suppresses", func(t *testing.T) {
		f := newFixture(t)
		f.vis.EXPECT().Visible().Return(false)
		f.prefs.EXPECT().NotifyMode().Return(domain.NotifyNone)
		f.d.HandleMessage(inbound("c1", "bob", "hi"), "bob", "general")
	})

	t.Run("mentions mode drops non-mentions", func(t *testing.T) {
		f := newFixture(t)
		f.vis.EXPECT().Visible().Return(false)
		f.prefs.EXPECT().NotifyMode().Return(domain.NotifyMentions)
		f.d.HandleMessage(inbound("c1", "bob", "nothing for you"), "bob", "general")
	})

	t.Run("mentions mode passes mentions through", func(t *testing.T) {
		f := newFixture(t)
		f.vis.EXPECT().Visible().Return(false)
		f.prefs.EXPECT().NotifyMode().Return(domain.NotifyMentions)
		f.perms.EXPECT().Current().Return(notify.PermissionGranted)
		f.renderer.EXPECT().Show(gomock.Any())
		f.d.HandleMessage(inbound("c1", "bob", "ping @alice"), "bob", "general")
	})

	t.Run("denied permission suppresses silently", func(t *testing.T) {
		f := newFixture(t)
		f.vis.EXPECT().Visible().Return(false)
		f.prefs.EXPECT().NotifyMode().Return(domain.NotifyAll)
		f.perms.EXPECT().Current().Return(notify.PermissionDenied)
		f.d.HandleMessage(inbound("c1", "bob", "hi"), "bob", "general")
	})
}

func TestPermissionPromptedOnce(t *testing.T) {
	f := newFixture(t)
	f.vis.EXPECT().Visible().Return(false).Times(3)
	f.prefs.EXPECT().NotifyMode().Return(domain.NotifyAll).Times(3)
	f.perms.EXPECT().Current().Return(notify.PermissionDefault).Times(3)
	f.perms.EXPECT().Request().Return(notify.PermissionDenied).Times(1)

	f.d.HandleMessage(inbound("c1", "bob", "one"), "bob", "general")
	f.d.HandleMessage(inbound("c1", "bob", "two"), "bob", "general")
	f.d.HandleMessage(inbound("c1", "bob", "three"), "bob", "general")
}

func TestShowContent(t *testing.T) {
	f := newFixture(t)
	f.vis.EXPECT().Visible().Return(false)
	f.prefs.EXPECT().NotifyMode().Return(domain.NotifyAll)
	f.perms.EXPECT().Current().Return(notify.PermissionGranted)

	long := strings.Repeat("x", 150)
	var shown notify.Notification
	f.renderer.EXPECT().Show(gomock.Any()).Do(func(n notify.Notification) { shown = n })

	f.d.HandleMessage(inbound("c7", "bob", long), "bob", "random")

	assert.Equal(t, "bob in #random", shown.Title)
	assert.Equal(t, strings.Repeat("x", 100)+"...", shown.Body)
	assert.Equal(t, "channel-c7", shown.Tag)
}

func TestAutoDismiss(t *testing.T) {
	f := newFixture(t)
	f.vis.EXPECT().Visible().Return(false)
	f.prefs.EXPECT().NotifyMode().Return(domain.NotifyAll)
	f.perms.EXPECT().Current().Return(notify.PermissionGranted)
	f.renderer.EXPECT().Show(gomock.Any())
	dismissed := make(chan struct{})
	f.renderer.EXPECT().Dismiss("channel-c1").Do(func(string) { close(dismissed) })

	f.d.HandleMessage(inbound("c1", "bob", "hi"), "bob", "general")
	assert.True(t, f.d.Active("channel-c1"))

	f.clock.Advance(5 * time.Second)
	assert.False(t, f.d.Active("channel-c1"), "display window closed at the deadline")
	select {
	case <-dismissed:
	case <-time.After(time.Second):
		t.Fatal("renderer never told to dismiss")
	}
}

func TestTagCoalescing(t *testing.T) {
	f := newFixture(t)
	f.vis.EXPECT().Visible().Return(false).Times(2)
	f.prefs.EXPECT().NotifyMode().Return(domain.NotifyAll).Times(2)
	f.perms.EXPECT().Current().Return(notify.PermissionGranted).Times(2)
	f.renderer.EXPECT().Show(gomock.Any()).Times(2)
	// the superseded expiry must not fire; exactly one dismiss at the end
	dismissed := make(chan struct{})
	f.renderer.EXPECT().Dismiss("channel-c1").Times(1).Do(func(string) { close(dismissed) })

	f.d.HandleMessage(inbound("c1", "bob", "one"), "bob", "general")
	f.clock.Advance(3 * time.Second)
	f.d.HandleMessage(inbound("c1", "bob", "two"), "bob", "general")

	f.clock.Advance(2 * time.Second)
	assert.True(t, f.d.Active("channel-c1"), "repeat extends the window past the first deadline")

	f.clock.Advance(3 * time.Second)
	assert.False(t, f.d.Active("channel-c1"))
	select {
	case <-dismissed:
	case <-time.After(time.Second):
		t.Fatal("renderer never told to dismiss")
	}
}

func TestUserDismissCancelsExpiry(t *testing.T) {
	f := newFixture(t)
	f.vis.EXPECT().Visible().Return(false)
	f.prefs.EXPECT().NotifyMode().Return(domain.NotifyAll)
	f.perms.EXPECT().Current().Return(notify.PermissionGranted)
	f.renderer.EXPECT().Show(gomock.Any())

	f.d.HandleMessage(inbound("c1", "bob", "hi"), "bob", "general")
	f.d.Dismissed("channel-c1")
	assert.False(t, f.d.Active("channel-c1"))
	f.clock.Advance(10 * time.Second)
}
