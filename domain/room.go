package domain

type RoomID string

// Room aggregates the durable state of one chatroom: the bounded
// message history and the membership roster. Live sockets are not part
// of the aggregate, they belong to the actor instance that accepted
// them.
type Room struct {
	ID      RoomID
	History *History
	Roster  *Roster
}

func NewRoom(id RoomID, historyLimit int, messages []Message, identities []string) *Room {
	return &Room{
		ID:      id,
		History: NewHistory(historyLimit, messages),
		Roster:  NewRoster(identities),
	}
}
