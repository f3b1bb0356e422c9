//go:generate go run go.uber.org/mock/mockgen -source=history.go -destination=../mocks/mock_history_repository.go -package=mocks
package repositories

import (
	"chat-rooms/domain"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

type IHistoryRepository interface {
	Load(room domain.RoomID) ([]domain.Message, error)
	Save(room domain.RoomID, messages []domain.Message) error
}

// HistoryRepository persists one JSON document per room under
// "history:{room_id}". The whole log is written as a single
// read-modify-write unit, which is safe because the room actor is the
// only writer for its key.
type HistoryRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewHistoryRepository(db *badger.DB, log *slog.Logger) HistoryRepository {
	return HistoryRepository{db: db, log: log}
}

func historyKey(room domain.RoomID) []byte {
	return []byte(fmt.Sprintf("history:%s", room))
}

// Load returns the stored log, oldest first. A missing key yields an
// empty log: rooms are created lazily and their first load is expected
// to find nothing.
func (r HistoryRepository) Load(room domain.RoomID) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(historyKey(room))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &messages)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading history for room %s: %w", room, err)
	}
	return messages, nil
}

func (r HistoryRepository) Save(room domain.RoomID, messages []domain.Message) error {
	bytes, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(historyKey(room), bytes)
	})
	if err != nil {
		return fmt.Errorf("saving history for room %s: %w", room, err)
	}
	return nil
}
