package domain

// History is the bounded, append-only message log of one room.
// The cap is enforced at every append: inserting beyond it evicts the
// oldest entries first.
type History struct {
	messages []Message
	limit    int
}

func NewHistory(limit int, preloaded []Message) *History {
	h := &History{limit: limit, messages: preloaded}
	h.truncate()
	return h
}

func (h *History) Append(message Message) {
	h.messages = append(h.messages, message)
	h.truncate()
}

// truncate keeps only the most recent limit messages.
func (h *History) truncate() {
	if h.limit > 0 && len(h.messages) > h.limit {
		h.messages = h.messages[len(h.messages)-h.limit:]
	}
}

// Preview returns the log as it would look after appending message,
// without mutating the history. The actor persists this preview first
// and commits the append in memory only once the write succeeded.
func (h *History) Preview(message Message) []Message {
	out := make([]Message, 0, len(h.messages)+1)
	out = append(out, h.messages...)
	out = append(out, message)
	if h.limit > 0 && len(out) > h.limit {
		out = out[len(out)-h.limit:]
	}
	return out
}

// Snapshot returns the log ordered oldest to newest. The returned slice
// is a copy, safe to hand to other goroutines.
func (h *History) Snapshot() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *History) Len() int {
	return len(h.messages)
}
