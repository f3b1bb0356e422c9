package domain

// Message is an immutable contents/author pair. Once appended to a room
// history it is never mutated, only evicted when the history overflows.
type Message struct {
	Contents string `json:"contents"`
	Author   string `json:"user"`
}
