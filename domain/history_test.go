package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistory_AppendBeyondCap_EvictsOldestFirst(t *testing.T) {
	req := require.New(t)
	h := NewHistory(100, nil)

	for i := 1; i <= 101; i++ {
		h.Append(Message{Contents: fmt.Sprintf("message %d", i), Author: "alice"})
	}

	snapshot := h.Snapshot()
	req.Len(snapshot, 100)
	req.Equal("message 2", snapshot[0].Contents)
	req.Equal("message 101", snapshot[99].Contents)
}

func TestHistory_PreloadedAboveCap_IsTruncated(t *testing.T) {
	req := require.New(t)
	var preloaded []Message
	for i := 1; i <= 150; i++ {
		preloaded = append(preloaded, Message{Contents: fmt.Sprintf("m%d", i), Author: "bob"})
	}

	h := NewHistory(100, preloaded)
	req.Equal(100, h.Len())
	req.Equal("m51", h.Snapshot()[0].Contents)
}

func TestHistory_SnapshotIsACopy(t *testing.T) {
	req := require.New(t)
	h := NewHistory(10, nil)
	h.Append(Message{Contents: "hi", Author: "alice"})

	snapshot := h.Snapshot()
	snapshot[0].Contents = "mutated"
	req.Equal("hi", h.Snapshot()[0].Contents)
}

func TestRoster_RemoveOne_KeepsDuplicateIdentity(t *testing.T) {
	req := require.New(t)
	r := NewRoster(nil)
	r.Add("alice")
	r.Add("alice")
	r.Add("bob")

	req.True(r.RemoveOne("alice"))
	req.Equal(2, r.Count())
	req.Equal([]string{"alice", "bob"}, r.Identities())

	// Removing an absent identity changes nothing.
	req.False(r.RemoveOne("clara"))
	req.Equal(2, r.Count())
}

func TestRoster_CountNeverNegative(t *testing.T) {
	req := require.New(t)
	r := NewRoster(nil)
	r.RemoveOne("")
	r.RemoveOne("ghost")
	req.Equal(0, r.Count())
}
