package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/livioambr/CLDE-Gruppe-6/internal/apperror"
)

func (that *Server) handleCreate(ctx context.Context, client *Client, msg *Message) error {
	log := that.logger.With("method", "handleCreate")

	var req CreateRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if req.Name == "" {
		that.sendError(client, msg.Action, "Internal", "name is required")
		return nil
	}

	session, host, err := that.sessions.Create(ctx, req.Name)
	if err != nil {
		return that.replyError(client, msg.Action, err)
	}

	client.bind(session.ID, host.ID, host.Name)
	that.register(session.ID, client)

	log.Info("session created", "sessionID", session.ID, "code", session.Code)

	return that.send(client, "session:created", &Payload{
		Session: session.PublicView(),
		Player:  host,
	})
}

func (that *Server) handleJoin(ctx context.Context, client *Client, msg *Message) error {
	log := that.logger.With("method", "handleJoin")

	var req JoinRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	session, player, err := that.sessions.Join(ctx, req.Code, req.Name)
	if err != nil {
		return that.replyError(client, msg.Action, err)
	}

	client.bind(session.ID, player.ID, player.Name)
	that.register(session.ID, client)

	if _, err = that.chat.System(ctx, session.ID, player.Name+" ist beigetreten"); err != nil {
		log.Warn("failed to store system message", "error", err)
	}

	history, err := that.chat.History(ctx, session.ID)
	if err != nil {
		log.Warn("failed to load chat history", "error", err)
	}

	// The joiner gets the full snapshot plus history; everyone else only
	// learns that the roster changed.
	that.broadcastExcept(session.ID, client, "player:joined", &Payload{
		Session: session.PublicView(),
		Player:  player,
	})

	log.Info("player joined", "sessionID", session.ID, "playerID", player.ID)

	return that.send(client, "session:joined", &Payload{
		Session: session.PublicView(),
		Player:  player,
		Chat:    history,
	})
}

func (that *Server) handleStart(ctx context.Context, client *Client, msg *Message) error {
	log := that.logger.With("method", "handleStart")

	var req StartRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	session, err := that.sessions.Start(ctx, req.SessionID, req.MaxAttempts)
	if err != nil {
		return that.replyError(client, msg.Action, err)
	}

	if _, err = that.chat.System(ctx, session.ID, "Spiel gestartet!"); err != nil {
		log.Warn("failed to store system message", "error", err)
	}

	that.broadcast(session.ID, "game:started", &Payload{
		Session: session.PublicView(),
	})

	log.Info("game started", "sessionID", session.ID)

	return nil
}

func (that *Server) handleGuess(ctx context.Context, client *Client, msg *Message) error {
	log := that.logger.With("method", "handleGuess")

	var req GuessRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	session, result, err := that.sessions.Guess(ctx, req.SessionID, req.PlayerID, req.Letter)
	if err != nil {
		return that.replyError(client, msg.Action, err)
	}

	that.broadcast(session.ID, "game:updated", &Payload{
		Session: session.PublicView(),
		Result:  result,
	})

	switch {
	case result.Won:
		if _, err = that.chat.System(ctx, session.ID, "Glückwunsch! Das Wort wurde erraten!"); err != nil {
			log.Warn("failed to store system message", "error", err)
		}
	case result.Lost:
		if _, err = that.chat.System(ctx, session.ID, "Verloren! Das Wort war: "+result.Word); err != nil {
			log.Warn("failed to store system message", "error", err)
		}
	}

	return nil
}

func (that *Server) handleReset(ctx context.Context, client *Client, msg *Message) error {
	log := that.logger.With("method", "handleReset")

	var req ResetRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	session, err := that.sessions.Reset(ctx, req.SessionID)
	if err != nil {
		return that.replyError(client, msg.Action, err)
	}

	that.broadcast(session.ID, "game:reset", &Payload{
		Session: session.PublicView(),
	})

	log.Info("session reset", "sessionID", session.ID)

	return nil
}

func (that *Server) handleLeave(ctx context.Context, client *Client, msg *Message) error {
	var req LeaveRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	result, err := that.sessions.Leave(ctx, req.SessionID, req.PlayerID)
	if err != nil {
		return that.replyError(client, msg.Action, err)
	}

	that.finishLeave(ctx, result, "host-left")

	if !result.HostLeft {
		that.unregister(client)
	}

	return nil
}

func (that *Server) handleChat(ctx context.Context, client *Client, msg *Message) error {
	var req ChatRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	message, err := that.chat.Send(ctx, req.SessionID, req.PlayerID, req.Text)
	if err != nil {
		return that.replyError(client, msg.Action, err)
	}

	that.broadcast(req.SessionID, "chat:message", &Payload{
		Message: message,
	})

	return nil
}

func (that *Server) handlePing(_ context.Context, client *Client, _ *Message) error {
	return that.send(client, "pong", &Payload{})
}

// replyError reports validation failures to the requesting client only.
// Infrastructure failures are passed up after a generic reply; they must
// never look like a successful state change.
func (that *Server) replyError(client *Client, action string, err error) error {
	if apperror.IsValidation(err) {
		that.sendError(client, action, apperror.CodeOf(err), err.Error())
		return nil
	}

	that.sendError(client, action, "Internal", "internal error")

	return err
}
