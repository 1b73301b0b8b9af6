package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/livioambr/CLDE-Gruppe-6/internal/config"
	"github.com/livioambr/CLDE-Gruppe-6/internal/repository"
	"github.com/livioambr/CLDE-Gruppe-6/internal/repository/storage"
	"github.com/livioambr/CLDE-Gruppe-6/internal/repository/storage/sqlite"
	"github.com/livioambr/CLDE-Gruppe-6/internal/service"
	"github.com/livioambr/CLDE-Gruppe-6/internal/words"
	"github.com/livioambr/CLDE-Gruppe-6/transport/rest"
	"github.com/livioambr/CLDE-Gruppe-6/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisClient, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisClient.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	wordStorage, err := sqlite.New(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open word storage: %w", err)
	}

	defer func() {
		if err = wordStorage.Close(); err != nil {
			log.Error("could not close word storage", "error", err)
		}
	}()

	if err = wordStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init word storage: %w", err)
	}

	wordSource := words.NewSQLiteSource(wordStorage)
	if err = wordSource.Seed(ctx); err != nil {
		return fmt.Errorf("could not seed word list: %w", err)
	}

	sessionRepo := repository.NewSessionRepository(redisClient)
	chatRepo := repository.NewChatRepository(redisClient)

	sessionService := service.NewSessionService(logger, sessionRepo, chatRepo, wordSource, conf.Game.MaxAttempts)
	chatService := service.NewChatService(logger, chatRepo, sessionService)

	wsServer := websocket.New(logger, sessionService, chatService)

	reaper := service.NewReaper(logger, sessionService, wsServer, conf.Game.GetSessionTTL(), conf.Game.GetReapInterval())
	go reaper.Run(ctx)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		handlers := rest.NewHandlers(logger, sessionService)
		if httpErr := rest.Start(ctx, conf.HTTPPort, handlers); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
