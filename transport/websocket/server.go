package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/livioambr/CLDE-Gruppe-6/internal/entity"
	"github.com/livioambr/CLDE-Gruppe-6/internal/service"
)

// Server accepts WebSocket connections, routes action messages to their
// handlers and fans session snapshots out to all participants.
type Server struct {
	logger *slog.Logger

	sessions service.SessionService
	chat     service.ChatService

	upgrader websocket.Upgrader

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}

	handlers map[string]func(ctx context.Context, client *Client, message *Message) error
}

func New(logger *slog.Logger, sessions service.SessionService, chat service.ChatService) *Server {
	server := &Server{
		logger:   logger,
		sessions: sessions,
		chat:     chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		rooms:    make(map[string]map[*Client]struct{}),
		handlers: make(map[string]func(context.Context, *Client, *Message) error),
	}

	server.handlers["session:create"] = server.handleCreate
	server.handlers["session:join"] = server.handleJoin
	server.handlers["game:start"] = server.handleStart
	server.handlers["game:guess"] = server.handleGuess
	server.handlers["game:reset"] = server.handleReset
	server.handlers["session:leave"] = server.handleLeave
	server.handlers["chat:message"] = server.handleChat
	server.handlers["ping"] = server.handlePing

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection upgrades the connection and runs the read loop.
func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(conn, that.logger)
	go client.writePump()

	log.Info("WebSocket connection established")

	that.readLoop(ctx, client)
	that.handleDisconnect(ctx, client)
}

func (that *Server) readLoop(ctx context.Context, client *Client) {
	log := that.logger.With("method", "readLoop")

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			that.sendError(client, message.Action, "Internal", "unknown action")
			continue
		}

		if err = handler(ctx, client, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// handleDisconnect treats a dropped connection like an explicit leave.
func (that *Server) handleDisconnect(ctx context.Context, client *Client) {
	defer client.close()

	sessionID, playerID := client.binding()
	that.unregister(client)

	if sessionID == "" || playerID == "" {
		return
	}

	log := that.logger.With("method", "handleDisconnect", "sessionID", sessionID, "playerID", playerID)

	result, err := that.sessions.Leave(ctx, sessionID, playerID)
	if err != nil {
		// The session may already be gone (host teardown won the race).
		log.Debug("leave on disconnect skipped", "error", err)
		return
	}

	that.finishLeave(ctx, result, "host-disconnect")
}

// finishLeave emits the notifications a leave requires and tears the
// session down when the host left or nobody remains.
func (that *Server) finishLeave(ctx context.Context, result *service.LeaveResult, closeReason string) {
	log := that.logger.With("method", "finishLeave", "sessionID", result.Session.ID)

	if result.HostLeft {
		that.NotifySessionClosed(result.Session, closeReason)

		if err := that.sessions.Teardown(ctx, result.Session.ID); err != nil {
			log.Error("failed to tear down session", "error", err)
		}

		return
	}

	that.broadcast(result.Session.ID, "player:left", &Payload{
		Session: result.Session.PublicView(),
		Player:  result.Player,
	})

	if _, err := that.chat.System(ctx, result.Session.ID, result.Player.Name+" hat die Lobby verlassen"); err != nil {
		log.Warn("failed to store system message", "error", err)
	}

	if result.Empty {
		if err := that.sessions.Teardown(ctx, result.Session.ID); err != nil {
			log.Error("failed to tear down empty session", "error", err)
		}
		that.closeRoom(result.Session.ID)
	}
}

// NotifySessionClosed tells every participant the session is going away
// and drops the room. Called before the session is deleted.
func (that *Server) NotifySessionClosed(session *entity.Session, reason string) {
	that.broadcast(session.ID, "session:closed", &Payload{Reason: reason})
	that.closeRoom(session.ID)
}

func (that *Server) register(sessionID string, client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[sessionID]
	if !ok {
		room = make(map[*Client]struct{})
		that.rooms[sessionID] = room
	}

	room[client] = struct{}{}
}

func (that *Server) unregister(client *Client) {
	sessionID, _ := client.binding()
	if sessionID == "" {
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if room, ok := that.rooms[sessionID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(that.rooms, sessionID)
		}
	}
}

func (that *Server) closeRoom(sessionID string) {
	that.mu.Lock()
	room := that.rooms[sessionID]
	delete(that.rooms, sessionID)
	that.mu.Unlock()

	for client := range room {
		client.close()
	}
}

// broadcast sends one message to every client of a session.
func (that *Server) broadcast(sessionID, action string, payload *Payload) {
	data, err := marshalMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to marshal broadcast", "action", action, "error", err)
		return
	}

	that.mu.RLock()
	clients := make([]*Client, 0, len(that.rooms[sessionID]))
	for client := range that.rooms[sessionID] {
		clients = append(clients, client)
	}
	that.mu.RUnlock()

	for _, client := range clients {
		if !client.enqueue(data) {
			that.logger.Warn("dropping slow client", "sessionID", sessionID)
			client.close()
		}
	}
}

// broadcastExcept sends to every participant but the given client.
func (that *Server) broadcastExcept(sessionID string, skip *Client, action string, payload *Payload) {
	data, err := marshalMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to marshal broadcast", "action", action, "error", err)
		return
	}

	that.mu.RLock()
	clients := make([]*Client, 0, len(that.rooms[sessionID]))
	for client := range that.rooms[sessionID] {
		if client != skip {
			clients = append(clients, client)
		}
	}
	that.mu.RUnlock()

	for _, client := range clients {
		if !client.enqueue(data) {
			client.close()
		}
	}
}

func (that *Server) send(client *Client, action string, payload *Payload) error {
	data, err := marshalMessage(action, payload)
	if err != nil {
		return err
	}

	if !client.enqueue(data) {
		client.close()
	}

	return nil
}

func (that *Server) sendError(client *Client, action, code, message string) {
	data, err := marshalMessage("error", &ErrorPayload{
		Action:  action,
		Code:    code,
		Message: message,
	})
	if err != nil {
		that.logger.Error("failed to marshal error", "error", err)
		return
	}

	if !client.enqueue(data) {
		client.close()
	}
}

func marshalMessage(action string, payload any) ([]byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := Message{
		Action:  action,
		Payload: payloadJSON,
	}

	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return data, nil
}
