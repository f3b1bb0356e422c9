package domain

// Command is a room-scoped operation. All commands for one room id are
// consumed by a single worker goroutine, which is the only correctness
// mechanism: no two commands for the same room ever interleave.
type Command interface {
	RoomID() RoomID
}

// JoinCommand attaches an accepted connection to the room. Reply
// carries the join outcome; on success the connection has already
// received its history snapshot.
type JoinCommand struct {
	Room     RoomID
	Conn     Conn
	Identity string
	Reply    chan error
}

func (c JoinCommand) RoomID() RoomID { return c.Room }

// PostMessageCommand appends a message and broadcasts it. Reply
// receives the persistence outcome: a non-nil error means the message
// was neither stored nor broadcast.
type PostMessageCommand struct {
	Room     RoomID
	Contents string
	Author   string
	Reply    chan error
}

func (c PostMessageCommand) RoomID() RoomID { return c.Room }

// LeaveCommand detaches a closed connection. Reply is optional.
type LeaveCommand struct {
	Room  RoomID
	Conn  Conn
	Reply chan error
}

func (c LeaveCommand) RoomID() RoomID { return c.Room }

// HistoryCommand reads the current log through the actor so the read
// is serialized with mutations and counts as room activity.
type HistoryCommand struct {
	Room  RoomID
	Reply chan []Message
}

func (c HistoryCommand) RoomID() RoomID { return c.Room }

// ExpireCommand is injected by the expiry scheduler. Generation guards
// against stale deadlines: a command whose generation no longer
// matches the armed one is a logged no-op.
type ExpireCommand struct {
	Room       RoomID
	Generation uint64
}

func (c ExpireCommand) RoomID() RoomID { return c.Room }
