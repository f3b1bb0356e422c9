package main

import (
	"chat-rooms/domain"
	"chat-rooms/repositories"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// roomctl is an operator tool: it opens the store read-only next to a
// running server and prints the chat catalog, a room roster or a room
// history.
//
// Usage:
//
//	roomctl chats
//	roomctl roster <room_id>
//	roomctl history <room_id>
type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	Limit          int    `envconfig:"ROOMCTL_LIMIT" default:"50"`
	Colours        bool   `envconfig:"ROOMCTL_COLOURS" default:"true"`
}

func main() {
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if !config.Colours {
		color.Disable()
	}

	// BypassLockGuard allows opening while the server holds the lock.
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	command := "chats"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "chats":
		listChats(db, logger, config.Limit)
	case "roster":
		showRoster(db, logger, roomArg())
	case "history":
		showHistory(db, logger, roomArg())
	default:
		log.Fatalf("Unknown command %q, expected chats, roster or history", command)
	}
}

func roomArg() domain.RoomID {
	if len(os.Args) < 3 {
		log.Fatal("Missing room id argument")
	}
	return domain.RoomID(os.Args[2])
}

func listChats(db *badger.DB, logger *slog.Logger, limit int) {
	chats, err := repositories.NewChatRepository(db, logger).List(limit)
	if err != nil {
		log.Fatalf("Failed to list chats: %v", err)
	}

	color.Bold.Printf("Chat catalog (%d)\n", len(chats))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Created By", "Created At"})
	for _, row := range lo.Map(chats, func(c repositories.Chat, _ int) []string {
		return []string{c.ID, c.Name, c.CreatedBy, c.CreatedAt.Format("2006-01-02 15:04:05")}
	}) {
		table.Append(row)
	}
	table.Render()
}

func showRoster(db *badger.DB, logger *slog.Logger, room domain.RoomID) {
	identities, err := repositories.NewRosterRepository(db, logger).Load(room)
	if err != nil {
		log.Fatalf("Failed to load roster: %v", err)
	}

	color.Bold.Printf("Roster of %s (%d)\n", room, len(identities))

	counts := lo.CountValues(identities)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Identity", "Connections"})
	for _, identity := range lo.Uniq(identities) {
		table.Append([]string{identity, fmt.Sprintf("%d", counts[identity])})
	}
	table.Render()
}

func showHistory(db *badger.DB, logger *slog.Logger, room domain.RoomID) {
	messages, err := repositories.NewHistoryRepository(db, logger).Load(room)
	if err != nil {
		log.Fatalf("Failed to load history: %v", err)
	}

	color.Bold.Printf("History of %s (%d)\n", room, len(messages))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Author", "Contents"})
	for _, message := range messages {
		table.Append([]string{message.Author, message.Contents})
	}
	table.Render()
}
