package search

import (
	"chat-rooms/domain"
	"context"
	"fmt"
	"log/slog"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

// MessageIndex offers per-room full-text search over broadcast
// messages. Indexing is best effort: a failed index write never blocks
// or fails the message path, the room actor only logs it.
type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

// Hit is one search result.
type Hit struct {
	Contents string `json:"contents"`
	Author   string `json:"user"`
}

func (i *MessageIndex) Index(room domain.RoomID, message domain.Message) error {
	doc := bluge.NewDocument(uuid.NewString()).
		AddField(bluge.NewKeywordField("room", string(room))).
		AddField(bluge.NewTextField("contents", message.Contents).StoreValue()).
		AddField(bluge.NewKeywordField("user", message.Author).StoreValue())

	if err := i.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("indexing message for room %s: %w", room, err)
	}
	return nil
}

// Search returns up to limit messages of one room matching the query.
func (i *MessageIndex) Search(ctx context.Context, room domain.RoomID, query string, limit int) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Warn("Failed closing index reader", "error", err)
		}
	}()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(string(room)).SetField("room")).
		AddMust(bluge.NewMatchQuery(query).SetField("contents"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for match, err := iterator.Next(); match != nil; match, err = iterator.Next() {
		if err != nil {
			return nil, err
		}
		var hit Hit
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "contents":
				hit.Contents = string(value)
			case "user":
				hit.Author = string(value)
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
