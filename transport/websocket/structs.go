package websocket

import (
	"encoding/json"

	"github.com/livioambr/CLDE-Gruppe-6/internal/entity"
	"github.com/livioambr/CLDE-Gruppe-6/internal/game"
	"github.com/livioambr/CLDE-Gruppe-6/internal/repository"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound payloads.
type (
	CreateRequest struct {
		Name string `json:"name"`
	}

	JoinRequest struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}

	StartRequest struct {
		SessionID   string `json:"session_id"`
		MaxAttempts int    `json:"max_attempts"`
	}

	GuessRequest struct {
		SessionID string `json:"session_id"`
		PlayerID  string `json:"player_id"`
		Letter    string `json:"letter"`
	}

	ResetRequest struct {
		SessionID string `json:"session_id"`
	}

	LeaveRequest struct {
		SessionID string `json:"session_id"`
		PlayerID  string `json:"player_id"`
	}

	ChatRequest struct {
		SessionID string `json:"session_id"`
		PlayerID  string `json:"player_id"`
		Text      string `json:"text"`
	}
)

// Payload is the outbound envelope. Session is always a public view, so
// the secret word can only appear after the round ended.
type Payload struct {
	Session *entity.SessionView       `json:"session,omitempty"`
	Player  *entity.Player            `json:"player,omitempty"`
	Result  *game.Result              `json:"result,omitempty"`
	Chat    []*repository.ChatMessage `json:"chat,omitempty"`
	Message *repository.ChatMessage   `json:"message,omitempty"`
	Reason  string                    `json:"reason,omitempty"`
}

// ErrorPayload carries a stable code plus a human-readable message.
type ErrorPayload struct {
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
