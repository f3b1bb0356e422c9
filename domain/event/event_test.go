package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvelope_WireShape(t *testing.T) {
	req := require.New(t)

	data, err := json.Marshal(Wrap(NewMessage{Contents: "hi", User: "alice"}))
	req.NoError(err)
	req.JSONEq(`{"messageType":"NewMessage","message":{"contents":"hi","user":"alice"}}`, string(data))

	data, err = json.Marshal(Wrap(ConnectionUpdate{ConnectionCount: 2, OnlineUsers: []string{"alice", "bob"}}))
	req.NoError(err)
	req.JSONEq(`{"messageType":"ConnectionUpdate","message":{"connection_count":2,"online_users":["alice","bob"]}}`, string(data))

	data, err = json.Marshal(Wrap(ChatroomEnded{ChatID: "r1"}))
	req.NoError(err)
	req.JSONEq(`{"messageType":"ChatroomEnded","message":{"chat_id":"r1"}}`, string(data))
}

func TestDecodeIncoming(t *testing.T) {
	req := require.New(t)

	msg, ok, err := DecodeIncoming([]byte(`{"messageType":"NewMessage","message":{"contents":"hi","user":"alice"}}`))
	req.NoError(err)
	req.True(ok)
	req.Equal("hi", msg.Contents)
	req.Equal("alice", msg.User)

	// Unknown inbound types are ignored, not errors.
	_, ok, err = DecodeIncoming([]byte(`{"messageType":"ConnectionUpdate","message":{}}`))
	req.NoError(err)
	req.False(ok)

	// Garbage is an error so the caller can log and drop it.
	_, _, err = DecodeIncoming([]byte(`{not json`))
	req.Error(err)
}
