package services

import (
	"chat-rooms/domain"
	"chat-rooms/repositories"
	"chat-rooms/runtime"
	"chat-rooms/search"
	"context"
)

type IChatService interface {
	CreateChat(name, createdBy string) (repositories.Chat, error)
	GetChat(id string) (repositories.Chat, error)
	DeleteChat(id string) error
	ListChats(limit int) ([]repositories.Chat, error)
	Join(ctx context.Context, room domain.RoomID, conn domain.Conn, identity string) error
	PostMessage(ctx context.Context, room domain.RoomID, contents, author string) error
	Leave(ctx context.Context, room domain.RoomID, conn domain.Conn) error
	GetMessages(ctx context.Context, room domain.RoomID) ([]domain.Message, error)
	SearchMessages(ctx context.Context, room domain.RoomID, query string, limit int) ([]search.Hit, error)
}

// ChatService fronts the room directory for everything room-scoped and
// the catalog repository for room metadata. Search reads the index
// directly: it never goes through the actor and never counts as room
// activity.
type ChatService struct {
	directory *runtime.Directory
	chats     repositories.IChatRepository
	index     *search.MessageIndex
}

func NewChatService(directory *runtime.Directory, chats repositories.IChatRepository, index *search.MessageIndex) *ChatService {
	return &ChatService{directory: directory, chats: chats, index: index}
}

func (s *ChatService) CreateChat(name, createdBy string) (repositories.Chat, error) {
	return s.chats.Create(name, createdBy)
}

func (s *ChatService) GetChat(id string) (repositories.Chat, error) {
	return s.chats.Get(id)
}

func (s *ChatService) DeleteChat(id string) error {
	return s.chats.Delete(id)
}

func (s *ChatService) ListChats(limit int) ([]repositories.Chat, error) {
	return s.chats.List(limit)
}

func (s *ChatService) Join(ctx context.Context, room domain.RoomID, conn domain.Conn, identity string) error {
	return s.directory.Join(ctx, room, conn, identity)
}

func (s *ChatService) PostMessage(ctx context.Context, room domain.RoomID, contents, author string) error {
	return s.directory.PostMessage(ctx, room, contents, author)
}

func (s *ChatService) Leave(ctx context.Context, room domain.RoomID, conn domain.Conn) error {
	return s.directory.Leave(ctx, room, conn)
}

func (s *ChatService) GetMessages(ctx context.Context, room domain.RoomID) ([]domain.Message, error) {
	return s.directory.History(ctx, room)
}

func (s *ChatService) SearchMessages(ctx context.Context, room domain.RoomID, query string, limit int) ([]search.Hit, error) {
	return s.index.Search(ctx, room, query, limit)
}
