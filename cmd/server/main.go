package main

import (
	"chat-rooms/internal"
	"chat-rooms/moderation"
	"chat-rooms/repositories"
	"chat-rooms/runtime"
	"chat-rooms/runtime/workers"
	"chat-rooms/search"
	"chat-rooms/server"
	"chat-rooms/services"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// os.Exit in main would skip the defers below, and keeping the wiring
// here leaves main trivially small.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Defer ensures the database lock is released and buffers are flushed before the function returns.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Full-text index (Bluge)
	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 4. Moderation
	words, err := moderation.LoadCensoredWords()
	if err != nil {
		return exitConfig, fmt.Errorf("censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(words, charReplacement)
	if err != nil {
		return exitConfig, fmt.Errorf("moderator init failed: %w", err)
	}

	// 5. Repositories & Services
	historyRepository := repositories.NewHistoryRepository(db, logger)
	rosterRepository := repositories.NewRosterRepository(db, logger)
	chatRepository := repositories.NewChatRepository(db, logger)
	userRepository := repositories.NewUserRepository(db, logger)
	index := search.NewMessageIndex(blugeWriter, logger)

	sup := workers.NewSupervisor(logger, config.RestartInterval)
	directory := runtime.NewDirectory(
		logger, sup,
		historyRepository, rosterRepository, chatRepository,
		&moderator, index,
		config.RoomTTL, config.LimitMessages, config.BufferSize,
	)

	authService := services.NewAuthService(userRepository, config.AuthTokenDuration)
	chatService := services.NewChatService(directory, chatRepository, index)

	// 6. HTTP surface
	router := server.NewRouter(
		logger,
		server.NewAuthHandler(logger, authService),
		server.NewChatHandler(logger, chatService),
		server.NewWebsocketHandler(logger, chatService, config.ConnectionBufferSize),
	)

	if logger.Enabled(ctx, slog.LevelDebug) {
		url := fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort)
		logger.Info("Debug store inspector available", "url", url)
		internal.StartDebugServer(db, config.DebugPort, "/inspect", func() map[string]any {
			return map[string]any{
				"ActiveRooms": directory.Active(),
				"Time":        time.Now().Format(time.RFC822),
			}
		})
	}

	// 7. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	directory.Start(ctx)

	sup.Add(
		workers.NewMonitorWorker(logger, config.MetricInterval, directory.Active),
		server.NewHTTPWorker(logger, config.Host, config.Port, router),
	)

	supDone := make(chan struct{})
	go func() {
		logger.Info("Starting supervisor...")
		sup.Run(ctx)
		close(supDone)
	}()

	// 8. Wait for Stop
	<-ctx.Done()
	logger.Info("Shutdown signal received")

	// 9. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	sup.Stop()
	<-supDone
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
