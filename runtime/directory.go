package runtime

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/errors"
	"chat-rooms/moderation"
	"chat-rooms/repositories"
	"chat-rooms/runtime/workers"
	"chat-rooms/search"
	"context"
	"log/slog"
	"sync"
	"time"
)

// Handle is the dispatch endpoint of one live room actor. Commands
// sent through a Handle are consumed by exactly one goroutine, in
// arrival order.
type Handle struct {
	id       domain.RoomID
	commands chan domain.Command
	done     chan struct{}
	once     sync.Once
}

// Dispatch queues a command for the room actor. Once the room has
// ended every dispatch fails with ErrRoomEnded; callers are expected
// to route again, which spawns a fresh actor.
func (h *Handle) Dispatch(ctx context.Context, cmd domain.Command) error {
	select {
	case <-h.done:
		return errors.ErrRoomEnded
	default:
	}
	select {
	case h.commands <- cmd:
		return nil
	case <-h.done:
		return errors.ErrRoomEnded
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handle) Ended() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (h *Handle) end() {
	h.once.Do(func() { close(h.done) })
}

// Directory owns the room id to actor mapping and guarantees the
// singleton: at most one live actor per room id. Routing an id with no
// live actor hydrates the room from storage and starts a fresh worker
// under the supervisor, so an ended room resurfaces on its next
// request with its persisted history and roster.
type Directory struct {
	mu         sync.Mutex
	log        *slog.Logger
	supervisor contract.ISupervisor
	rooms      map[domain.RoomID]*Handle

	histories repositories.IHistoryRepository
	rosters   repositories.IRosterRepository
	chats     repositories.IChatRepository
	moderator *moderation.Moderator
	index     *search.MessageIndex

	ttl          time.Duration
	historyLimit int
	bufferSize   int

	baseCtx context.Context
}

func NewDirectory(
	log *slog.Logger,
	supervisor contract.ISupervisor,
	histories repositories.IHistoryRepository,
	rosters repositories.IRosterRepository,
	chats repositories.IChatRepository,
	moderator *moderation.Moderator,
	index *search.MessageIndex,
	ttl time.Duration,
	historyLimit int,
	bufferSize int,
) *Directory {
	return &Directory{
		log:          log,
		supervisor:   supervisor,
		rooms:        make(map[domain.RoomID]*Handle),
		histories:    histories,
		rosters:      rosters,
		chats:        chats,
		moderator:    moderator,
		index:        index,
		ttl:          ttl,
		historyLimit: historyLimit,
		bufferSize:   bufferSize,
		baseCtx:      context.Background(),
	}
}

// Start binds the directory to the process lifetime context. Actors
// are started under this context, never under a request context.
func (d *Directory) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.baseCtx = ctx
}

// Route returns the live handle for the room, creating the actor if
// none exists or the previous one ended. A storage failure while
// hydrating the room propagates and no actor is started.
func (d *Directory) Route(room domain.RoomID) (*Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if h, ok := d.rooms[room]; ok && !h.Ended() {
		return h, nil
	}

	messages, err := d.histories.Load(room)
	if err != nil {
		return nil, err
	}
	identities, err := d.rosters.Load(room)
	if err != nil {
		return nil, err
	}

	state := domain.NewRoom(room, d.historyLimit, messages, identities)
	h := &Handle{
		id:       room,
		commands: make(chan domain.Command, d.bufferSize),
		done:     make(chan struct{}),
	}

	scheduler := workers.NewExpiryScheduler(func(generation uint64) {
		cmd := domain.ExpireCommand{Room: room, Generation: generation}
		if err := h.Dispatch(context.Background(), cmd); err != nil {
			d.log.Warn("Expiry deadline dropped", "room", room, "error", err)
		}
	})

	worker := workers.NewRoomWorker(
		d.log, state, h.commands, scheduler,
		d.histories, d.rosters, d.chats,
		d.moderator, d.index,
		d.ttl,
		func() {
			h.end()
			d.forget(room, h)
		},
	)

	d.rooms[room] = h
	d.supervisor.Start(d.baseCtx, worker)
	d.log.Info("Room actor started", "room", room, "history", state.History.Len(), "members", state.Roster.Count())
	return h, nil
}

// forget drops the mapping only if it still points at the ended
// handle; a replacement actor routed in the meantime must survive.
func (d *Directory) forget(room domain.RoomID, h *Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rooms[room] == h {
		delete(d.rooms, room)
	}
}

// Active returns the number of live room actors.
func (d *Directory) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	count := 0
	for _, h := range d.rooms {
		if !h.Ended() {
			count++
		}
	}
	return count
}

// Join attaches an accepted connection to the room and waits for the
// actor to confirm: once Join returns nil the history snapshot is on
// the wire and the roster is persisted.
func (d *Directory) Join(ctx context.Context, room domain.RoomID, conn domain.Conn, identity string) error {
	h, err := d.Route(room)
	if err != nil {
		return err
	}
	replyCh := make(chan error, 1)
	cmd := domain.JoinCommand{Room: room, Conn: conn, Identity: identity, Reply: replyCh}
	if err := h.Dispatch(ctx, cmd); err != nil {
		return err
	}
	return d.await(ctx, h, replyCh)
}

// PostMessage appends and broadcasts a message, reporting the
// persistence outcome.
func (d *Directory) PostMessage(ctx context.Context, room domain.RoomID, contents, author string) error {
	h, err := d.Route(room)
	if err != nil {
		return err
	}
	replyCh := make(chan error, 1)
	cmd := domain.PostMessageCommand{Room: room, Contents: contents, Author: author, Reply: replyCh}
	if err := h.Dispatch(ctx, cmd); err != nil {
		return err
	}
	return d.await(ctx, h, replyCh)
}

// Leave detaches a closed connection. An ended room is fine here: the
// expiry already closed and forgot every connection.
func (d *Directory) Leave(ctx context.Context, room domain.RoomID, conn domain.Conn) error {
	d.mu.Lock()
	h, ok := d.rooms[room]
	d.mu.Unlock()
	if !ok || h.Ended() {
		return nil
	}
	return h.Dispatch(ctx, domain.LeaveCommand{Room: room, Conn: conn})
}

// History reads the current log through the actor, serialized with
// mutations and counted as activity.
func (d *Directory) History(ctx context.Context, room domain.RoomID) ([]domain.Message, error) {
	h, err := d.Route(room)
	if err != nil {
		return nil, err
	}
	replyCh := make(chan []domain.Message, 1)
	if err := h.Dispatch(ctx, domain.HistoryCommand{Room: room, Reply: replyCh}); err != nil {
		return nil, err
	}
	select {
	case messages := <-replyCh:
		return messages, nil
	case <-h.done:
		return nil, errors.ErrRoomEnded
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *Directory) await(ctx context.Context, h *Handle, replyCh chan error) error {
	select {
	case err := <-replyCh:
		return err
	case <-h.done:
		return errors.ErrRoomEnded
	case <-ctx.Done():
		return ctx.Err()
	}
}
