//go:generate go run go.uber.org/mock/mockgen -source=roster.go -destination=../mocks/mock_roster_repository.go -package=mocks
package repositories

import (
	"chat-rooms/domain"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

type IRosterRepository interface {
	Load(room domain.RoomID) ([]string, error)
	Save(room domain.RoomID, identities []string) error
}

// RosterRepository persists the membership roster under
// "roster:{room_id}" so the reported member count survives actor
// restarts between events. Live sockets are never persisted.
type RosterRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRosterRepository(db *badger.DB, log *slog.Logger) RosterRepository {
	return RosterRepository{db: db, log: log}
}

func rosterKey(room domain.RoomID) []byte {
	return []byte(fmt.Sprintf("roster:%s", room))
}

func (r RosterRepository) Load(room domain.RoomID) ([]string, error) {
	var identities []string
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(rosterKey(room))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &identities)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading roster for room %s: %w", room, err)
	}
	return identities, nil
}

func (r RosterRepository) Save(room domain.RoomID, identities []string) error {
	bytes, err := json.Marshal(identities)
	if err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(rosterKey(room), bytes)
	})
	if err != nil {
		return fmt.Errorf("saving roster for room %s: %w", room, err)
	}
	return nil
}
