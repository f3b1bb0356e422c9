package workers

import (
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"encoding/json"
	"log/slog"
)

// Fanout delivers one event to every live connection of a room. The
// event is serialized once; a send failure on one socket is logged and
// ignored so the remaining sockets still receive the event. Fanout is
// best effort, it is not a message broker.
type Fanout struct {
	log *slog.Logger
}

func NewFanout(log *slog.Logger) Fanout {
	return Fanout{log: log}
}

func (f Fanout) Broadcast(conns []domain.Conn, env event.Envelope) {
	frame, err := json.Marshal(env)
	if err != nil {
		f.log.Error("Event not serializable, broadcast skipped", "type", env.MessageType, "error", err)
		return
	}
	for _, conn := range conns {
		if err := conn.Send(frame); err != nil {
			f.log.Warn("Event lost for one connection",
				"type", env.MessageType,
				"identity", conn.Identity(),
				"error", err)
		}
	}
}

// SendTo serializes and delivers an event to a single connection.
func (f Fanout) SendTo(conn domain.Conn, env event.Envelope) error {
	frame, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return conn.Send(frame)
}
