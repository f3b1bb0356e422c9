package search

import (
	"chat-rooms/domain"
	"context"
	"log/slog"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *MessageIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewMessageIndex(writer, slog.Default())
}

func Test_Index_And_Search_ScopedToRoom(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	ctx := context.Background()

	req.NoError(index.Index("r1", domain.Message{Contents: "we should migrate to badger", Author: "alice"}))
	req.NoError(index.Index("r1", domain.Message{Contents: "lunch at noon", Author: "bob"}))
	req.NoError(index.Index("r2", domain.Message{Contents: "badger is great", Author: "clara"}))

	hits, err := index.Search(ctx, "r1", "badger", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("alice", hits[0].Author)
	req.Contains(hits[0].Contents, "migrate")
}

func Test_Search_NoMatches(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)

	req.NoError(index.Index("r1", domain.Message{Contents: "hello world", Author: "alice"}))

	hits, err := index.Search(context.Background(), "r1", "absent", 10)
	req.NoError(err)
	req.Empty(hits)
}
