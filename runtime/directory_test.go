package runtime

import (
	"chat-rooms/domain"
	"chat-rooms/mocks"
	"chat-rooms/repositories"
	"chat-rooms/runtime/workers"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type stubConn struct {
	identity string
	mu       sync.Mutex
	frames   int
	closed   bool
}

func (c *stubConn) Identity() string { return c.identity }

func (c *stubConn) Send([]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames++
	return nil
}

func (c *stubConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func newTestDirectory(t *testing.T, ttl time.Duration) *Directory {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	chats := mocks.NewMockIChatRepository(gomock.NewController(t))
	chats.EXPECT().Delete(gomock.Any()).Return(nil).AnyTimes()

	supervisor := workers.NewSupervisor(log, 10*time.Millisecond)
	d := NewDirectory(
		log, supervisor,
		repositories.NewHistoryRepository(db, log),
		repositories.NewRosterRepository(db, log),
		chats,
		nil, nil,
		ttl, 100, 16,
	)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		supervisor.Stop()
	})
	d.Start(ctx)
	return d
}

func Test_Directory_Route_SameRoomSharesOneActor(t *testing.T) {
	req := require.New(t)
	d := newTestDirectory(t, time.Hour)

	first, err := d.Route("r1")
	req.NoError(err)
	second, err := d.Route("r1")
	req.NoError(err)
	req.Same(first, second)

	other, err := d.Route("r2")
	req.NoError(err)
	req.NotSame(first, other)
	req.Equal(2, d.Active())
}

func Test_Directory_JoinPostHistory_EndToEnd(t *testing.T) {
	req := require.New(t)
	d := newTestDirectory(t, time.Hour)
	ctx := context.Background()

	conn := &stubConn{identity: "alice"}
	req.NoError(d.Join(ctx, "r1", conn, "alice"))
	req.NoError(d.PostMessage(ctx, "r1", "hello", "alice"))

	messages, err := d.History(ctx, "r1")
	req.NoError(err)
	req.Equal([]domain.Message{{Contents: "hello", Author: "alice"}}, messages)

	// Other rooms stay untouched.
	messages, err = d.History(ctx, "r2")
	req.NoError(err)
	req.Empty(messages)
}

func Test_Directory_RoomResurfacesWithDurableStateAfterExpiry(t *testing.T) {
	req := require.New(t)
	d := newTestDirectory(t, 50*time.Millisecond)
	ctx := context.Background()

	conn := &stubConn{identity: "alice"}
	req.NoError(d.Join(ctx, "r1", conn, "alice"))
	req.NoError(d.PostMessage(ctx, "r1", "before the end", "alice"))

	req.Eventually(func() bool { return d.Active() == 0 }, 2*time.Second, 10*time.Millisecond)

	// Routing the same id again hydrates a fresh actor from storage.
	messages, err := d.History(ctx, "r1")
	req.NoError(err)
	req.Equal([]domain.Message{{Contents: "before the end", Author: "alice"}}, messages)
	req.Equal(1, d.Active())
}

func Test_Directory_Leave_OnEndedRoomIsNoop(t *testing.T) {
	req := require.New(t)
	d := newTestDirectory(t, 40*time.Millisecond)
	ctx := context.Background()

	conn := &stubConn{identity: "alice"}
	req.NoError(d.Join(ctx, "r1", conn, "alice"))
	req.Eventually(func() bool { return d.Active() == 0 }, 2*time.Second, 10*time.Millisecond)

	req.NoError(d.Leave(ctx, "r1", conn))
}
