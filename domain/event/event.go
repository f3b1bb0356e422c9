package event

import (
	"chat-rooms/domain"
	"encoding/json"
	"fmt"
)

// Type enumerates the four wire event kinds. The union is closed: the
// actor never emits, and the decoder never accepts, anything else.
type Type string

const (
	TypeNewMessage       Type = "NewMessage"
	TypeConnectionUpdate Type = "ConnectionUpdate"
	TypeChatroomEnded    Type = "ChatroomEnded"
	TypeMessageHistory   Type = "MessageHistory"
)

// Payload is implemented by exactly the four event payloads.
type Payload interface {
	EventType() Type
}

// Envelope is the wire format in both directions:
// {"messageType": "...", "message": {...}}.
type Envelope struct {
	MessageType Type    `json:"messageType"`
	Message     Payload `json:"message"`
}

func Wrap(p Payload) Envelope {
	return Envelope{MessageType: p.EventType(), Message: p}
}

type NewMessage struct {
	Contents string `json:"contents"`
	User     string `json:"user"`
}

func (NewMessage) EventType() Type { return TypeNewMessage }

type ConnectionUpdate struct {
	ConnectionCount int      `json:"connection_count"`
	OnlineUsers     []string `json:"online_users"`
}

func (ConnectionUpdate) EventType() Type { return TypeConnectionUpdate }

type ChatroomEnded struct {
	ChatID string `json:"chat_id"`
}

func (ChatroomEnded) EventType() Type { return TypeChatroomEnded }

type MessageHistory struct {
	History []domain.Message `json:"history"`
}

func (MessageHistory) EventType() Type { return TypeMessageHistory }

// incomingEnvelope defers payload decoding until the type is known.
type incomingEnvelope struct {
	MessageType Type            `json:"messageType"`
	Message     json.RawMessage `json:"message"`
}

// DecodeIncoming parses an inbound client frame. Only NewMessage is
// accepted; any other messageType returns ok=false and is ignored by
// the caller. A frame that is not valid JSON returns an error.
func DecodeIncoming(frame []byte) (NewMessage, bool, error) {
	var env incomingEnvelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return NewMessage{}, false, fmt.Errorf("undecodable frame: %w", err)
	}
	if env.MessageType != TypeNewMessage {
		return NewMessage{}, false, nil
	}
	var msg NewMessage
	if err := json.Unmarshal(env.Message, &msg); err != nil {
		return NewMessage{}, false, fmt.Errorf("undecodable NewMessage payload: %w", err)
	}
	return msg, true, nil
}
