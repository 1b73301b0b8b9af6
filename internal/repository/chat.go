package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	chatKeyPrefix = "chat:"

	// maxChatHistory caps the stored history per session.
	maxChatHistory = 100
)

// ChatMessage is one stored chat line. System messages carry no player.
type ChatMessage struct {
	PlayerID   string    `json:"player_id,omitempty"`
	PlayerName string    `json:"player_name,omitempty"`
	Text       string    `json:"text"`
	System     bool      `json:"system,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}

type ChatRepository interface {
	Append(ctx context.Context, sessionID string, message *ChatMessage) error
	History(ctx context.Context, sessionID string, limit int64) ([]*ChatMessage, error)
	Clear(ctx context.Context, sessionID string) error
}

type dbChat struct {
	client *redis.Client
}

func NewChatRepository(client *redis.Client) ChatRepository {
	return &dbChat{
		client: client,
	}
}

func (that *dbChat) Append(ctx context.Context, sessionID string, message *ChatMessage) error {
	messageJSON, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("could not marshal chat message: %w", err)
	}

	chatKey := chatKeyPrefix + sessionID
	if err = that.client.RPush(ctx, chatKey, messageJSON).Err(); err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}

	if err = that.client.LTrim(ctx, chatKey, -maxChatHistory, -1).Err(); err != nil {
		return fmt.Errorf("failed to trim chat history: %w", err)
	}

	return nil
}

func (that *dbChat) History(ctx context.Context, sessionID string, limit int64) ([]*ChatMessage, error) {
	if limit <= 0 || limit > maxChatHistory {
		limit = maxChatHistory
	}

	entries, err := that.client.LRange(ctx, chatKeyPrefix+sessionID, -limit, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}

	messages := make([]*ChatMessage, 0, len(entries))
	for _, entry := range entries {
		var message ChatMessage
		if err = json.Unmarshal([]byte(entry), &message); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat message: %w", err)
		}
		messages = append(messages, &message)
	}

	return messages, nil
}

func (that *dbChat) Clear(ctx context.Context, sessionID string) error {
	if err := that.client.Del(ctx, chatKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}

	return nil
}
