package workers

import (
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"chat-rooms/moderation"
	"chat-rooms/repositories"
	"chat-rooms/search"
	"context"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
)

// RoomWorker is the actor of one room. It is the only goroutine that
// ever touches the room state: every mutation and every read arrives
// as a command on a single channel and runs to completion before the
// next one starts. There is no other locking around room state.
//
// The worker retires itself by returning nil after a valid expiry
// deadline fired; the supervisor never restarts a worker that finished
// properly.
type RoomWorker struct {
	log       *slog.Logger
	room      *domain.Room
	commands  <-chan domain.Command
	registry  *ConnectionRegistry
	fanout    Fanout
	scheduler *ExpiryScheduler
	histories repositories.IHistoryRepository
	rosters   repositories.IRosterRepository
	chats     repositories.IChatRepository
	moderator *moderation.Moderator
	index     *search.MessageIndex
	ttl       time.Duration
	onEnd     func()
}

func NewRoomWorker(
	log *slog.Logger,
	room *domain.Room,
	commands <-chan domain.Command,
	scheduler *ExpiryScheduler,
	histories repositories.IHistoryRepository,
	rosters repositories.IRosterRepository,
	chats repositories.IChatRepository,
	moderator *moderation.Moderator,
	index *search.MessageIndex,
	ttl time.Duration,
	onEnd func(),
) *RoomWorker {
	return &RoomWorker{
		log:       log.With("room", room.ID),
		room:      room,
		commands:  commands,
		registry:  NewConnectionRegistry(),
		fanout:    NewFanout(log),
		scheduler: scheduler,
		histories: histories,
		rosters:   rosters,
		chats:     chats,
		moderator: moderator,
		index:     index,
		ttl:       ttl,
		onEnd:     onEnd,
	}
}

func (w *RoomWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.scheduler.Disarm()
			return nil
		case cmd, ok := <-w.commands:
			if !ok {
				w.scheduler.Disarm()
				return nil
			}
			switch c := cmd.(type) {
			case domain.JoinCommand:
				w.handleJoin(c)
			case domain.PostMessageCommand:
				w.handlePost(c)
			case domain.LeaveCommand:
				w.handleLeave(c)
			case domain.HistoryCommand:
				w.handleHistory(c)
			case domain.ExpireCommand:
				if w.handleExpire(c) {
					return nil
				}
			default:
				w.log.Warn("Unknown command dropped", "command", cmd)
			}
		}
	}
}

// handleJoin attaches the connection, persists the enlarged roster,
// sends the history snapshot to the joiner only, and announces the new
// membership to everyone. A failed roster write rolls the join back
// and reports the error: the join did not happen.
func (w *RoomWorker) handleJoin(c domain.JoinCommand) {
	w.registry.Add(c.Conn)
	w.room.Roster.Add(c.Identity)

	if err := w.rosters.Save(w.room.ID, w.room.Roster.Identities()); err != nil {
		w.room.Roster.RemoveOne(c.Identity)
		w.registry.Remove(c.Conn)
		w.log.Error("Roster not persisted, join refused", "identity", c.Identity, "error", err)
		reply(c.Reply, err)
		return
	}

	snapshot := event.Wrap(event.MessageHistory{History: w.room.History.Snapshot()})
	if err := w.fanout.SendTo(c.Conn, snapshot); err != nil {
		w.log.Warn("History snapshot not delivered", "identity", c.Identity, "error", err)
	}

	w.broadcastConnectionUpdate()
	w.armDeadline()
	w.log.Info("Connection joined", "identity", c.Identity, "connections", w.registry.Len())
	reply(c.Reply, nil)
}

// handlePost persists the appended log before anything else. On a
// failed write the message is not delivered: no broadcast, no index,
// no in-memory append, and the caller gets the error.
func (w *RoomWorker) handlePost(c domain.PostMessageCommand) {
	contents := c.Contents
	if w.moderator != nil {
		contents = w.moderator.Censor(contents)
	}
	message := domain.Message{Contents: contents, Author: c.Author}

	if err := w.histories.Save(w.room.ID, w.room.History.Preview(message)); err != nil {
		w.log.Error("History not persisted, message refused", "author", c.Author, "error", err)
		reply(c.Reply, err)
		return
	}
	w.room.History.Append(message)

	info := whatlanggo.Detect(contents)
	w.log.Debug("Message accepted",
		"author", c.Author,
		"length", len(contents),
		"language", whatlanggo.LangToString(info.Lang))

	w.fanout.Broadcast(w.registry.Conns(), event.Wrap(event.NewMessage{
		Contents: contents,
		User:     c.Author,
	}))

	if w.index != nil {
		if err := w.index.Index(w.room.ID, message); err != nil {
			w.log.Warn("Message not indexed", "error", err)
		}
	}

	w.armDeadline()
	reply(c.Reply, nil)
}

// handleLeave detaches the connection and removes exactly one roster
// occurrence of its identity, so a user connected twice keeps one
// entry after one socket closes. Leaving is not activity: the idle
// deadline is left untouched.
func (w *RoomWorker) handleLeave(c domain.LeaveCommand) {
	identity := ""
	if c.Conn != nil {
		identity = c.Conn.Identity()
	}
	w.registry.Remove(c.Conn)

	if !w.room.Roster.RemoveOne(identity) {
		w.log.Warn("Disconnect for identity absent from roster", "identity", identity)
	}
	if err := w.rosters.Save(w.room.ID, w.room.Roster.Identities()); err != nil {
		w.log.Error("Roster not persisted on disconnect", "identity", identity, "error", err)
	}

	w.broadcastConnectionUpdate()
	w.log.Info("Connection left", "identity", identity, "connections", w.registry.Len())
	reply(c.Reply, nil)
}

// handleHistory reads the log through the actor, which both serializes
// it against concurrent appends and counts as room activity.
func (w *RoomWorker) handleHistory(c domain.HistoryCommand) {
	w.armDeadline()
	if c.Reply != nil {
		c.Reply <- w.room.History.Snapshot()
	}
}

// handleExpire ends the room if the fired deadline is still the armed
// one. A stale generation means the deadline was rescheduled after the
// timer fired and the expiry loses the race: logged no-op.
// Ending a room deletes its catalog row, tells every connection the
// room is over and closes them. History and roster are left in place.
func (w *RoomWorker) handleExpire(c domain.ExpireCommand) bool {
	if c.Generation != w.scheduler.Generation() {
		w.log.Warn("Stale expiry deadline ignored",
			"fired_generation", c.Generation,
			"armed_generation", w.scheduler.Generation())
		return false
	}

	w.log.Info("Idle deadline reached, ending room", "connections", w.registry.Len())

	if err := w.chats.Delete(string(w.room.ID)); err != nil {
		w.log.Error("Catalog entry not deleted for ended room", "error", err)
	}

	conns := w.registry.Conns()
	w.fanout.Broadcast(conns, event.Wrap(event.ChatroomEnded{ChatID: string(w.room.ID)}))
	for _, conn := range conns {
		if err := conn.Close(); err != nil {
			w.log.Warn("Connection not closed cleanly", "identity", conn.Identity(), "error", err)
		}
		w.registry.Remove(conn)
	}

	if w.onEnd != nil {
		w.onEnd()
	}
	return true
}

func (w *RoomWorker) broadcastConnectionUpdate() {
	w.fanout.Broadcast(w.registry.Conns(), event.Wrap(event.ConnectionUpdate{
		ConnectionCount: w.room.Roster.Count(),
		OnlineUsers:     w.room.Roster.Identities(),
	}))
}

func (w *RoomWorker) armDeadline() {
	generation := w.scheduler.Arm(w.ttl)
	w.log.Debug("Idle deadline armed", "ttl", w.ttl, "generation", generation)
}

func reply(ch chan error, err error) {
	if ch != nil {
		ch <- err
	}
}
