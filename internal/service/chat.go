package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/livioambr/CLDE-Gruppe-6/internal/apperror"
	"github.com/livioambr/CLDE-Gruppe-6/internal/repository"
)

type chatRepo interface {
	Append(ctx context.Context, sessionID string, message *repository.ChatMessage) error
	History(ctx context.Context, sessionID string, limit int64) ([]*repository.ChatMessage, error)
}

type ChatService interface {
	Send(ctx context.Context, sessionID, playerID, text string) (*repository.ChatMessage, error)
	System(ctx context.Context, sessionID, text string) (*repository.ChatMessage, error)
	History(ctx context.Context, sessionID string) ([]*repository.ChatMessage, error)
}

type chatService struct {
	logger *slog.Logger

	chat     chatRepo
	sessions SessionService
}

func NewChatService(logger *slog.Logger, chat chatRepo, sessions SessionService) ChatService {
	return &chatService{
		logger:   logger,
		chat:     chat,
		sessions: sessions,
	}
}

func (that *chatService) Send(ctx context.Context, sessionID, playerID, text string) (*repository.ChatMessage, error) {
	session, err := that.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Closing {
		return nil, apperror.ErrSessionClosing
	}

	player := session.PlayerByID(playerID)
	if player == nil {
		return nil, apperror.ErrUnknownPlayer
	}

	message := &repository.ChatMessage{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Text:       text,
		SentAt:     time.Now(),
	}

	if err = that.chat.Append(ctx, sessionID, message); err != nil {
		return nil, fmt.Errorf("failed to store chat message: %w", err)
	}

	return message, nil
}

// System stores a server-generated chat line. Closing sessions are skipped
// silently; system lines are best-effort.
func (that *chatService) System(ctx context.Context, sessionID, text string) (*repository.ChatMessage, error) {
	session, err := that.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Closing {
		return nil, nil
	}

	message := &repository.ChatMessage{
		Text:   text,
		System: true,
		SentAt: time.Now(),
	}

	if err = that.chat.Append(ctx, sessionID, message); err != nil {
		return nil, fmt.Errorf("failed to store system message: %w", err)
	}

	return message, nil
}

func (that *chatService) History(ctx context.Context, sessionID string) ([]*repository.ChatMessage, error) {
	messages, err := that.chat.History(ctx, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	return messages, nil
}
