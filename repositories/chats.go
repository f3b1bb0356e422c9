//go:generate go run go.uber.org/mock/mockgen -source=chats.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"chat-rooms/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IChatRepository interface {
	Create(name, createdBy string) (Chat, error)
	Get(id string) (Chat, error)
	Delete(id string) error
	List(limit int) ([]Chat, error)
}

// Chat is a catalog row: room metadata, not room state. The room actor
// deletes its row when the idle deadline fires.
type Chat struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewChatRepository(db *badger.DB, log *slog.Logger) ChatRepository {
	return ChatRepository{db: db, log: log}
}

func chatKey(id string) []byte {
	return []byte(fmt.Sprintf("chat:%s", id))
}

func (r ChatRepository) Create(name, createdBy string) (Chat, error) {
	chat := Chat{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	bytes, err := json.Marshal(chat)
	if err != nil {
		return Chat{}, err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chatKey(chat.ID), bytes)
	})
	if err != nil {
		return Chat{}, fmt.Errorf("creating chat %q: %w", name, err)
	}
	return chat, nil
}

func (r ChatRepository) Get(id string) (Chat, error) {
	var chat Chat
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chatKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &chat)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return Chat{}, errors.ErrChatNotFound
	}
	if err != nil {
		return Chat{}, fmt.Errorf("loading chat %s: %w", id, err)
	}
	return chat, nil
}

// Delete is idempotent: deleting an absent row is not an error, the
// expiry alarm may race with an explicit delete.
func (r ChatRepository) Delete(id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(chatKey(id))
	})
}

func (r ChatRepository) List(limit int) ([]Chat, error) {
	var chats []Chat
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("chat:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(chats) == limit {
				break
			}
			err := it.Item().Value(func(val []byte) error {
				var chat Chat
				if err := json.Unmarshal(val, &chat); err != nil {
					return err
				}
				chats = append(chats, chat)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing chats: %w", err)
	}
	return chats, nil
}
