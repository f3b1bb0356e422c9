package domain

// Conn is a live, accepted connection as the room actor sees it: an
// identity captured at accept time plus a best-effort frame sink.
// Implementations must be safe for use from the actor goroutine while
// their pumps run elsewhere.
type Conn interface {
	Identity() string
	Send(frame []byte) error
	Close() error
}
