package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait).
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Size of the send channel buffer.
	sendBufferSize = 64
)

// Client is one WebSocket participant. Once it created or joined a
// session it is bound to that session and player id; the binding drives
// the disconnect handling.
type Client struct {
	conn   *websocket.Conn
	logger *slog.Logger

	send chan []byte

	mu         sync.Mutex
	closed     bool
	sessionID  string
	playerID   string
	playerName string
}

func newClient(conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		conn:   conn,
		logger: logger,
		send:   make(chan []byte, sendBufferSize),
	}
}

func (that *Client) bind(sessionID, playerID, playerName string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessionID = sessionID
	that.playerID = playerID
	that.playerName = playerName
}

func (that *Client) binding() (sessionID, playerID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.sessionID, that.playerID
}

// enqueue hands a marshaled message to the write pump. A client with a
// full send buffer is dropped rather than blocking the broadcaster.
func (that *Client) enqueue(data []byte) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return true
	}

	select {
	case that.send <- data:
		return true
	default:
		return false
	}
}

// close shuts the send channel exactly once; the write pump finishes the
// connection teardown.
func (that *Client) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.closed = true
	close(that.send)
}

// writePump serializes all writes to the connection and keeps it alive
// with periodic pings.
func (that *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case data, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				that.logger.Debug("write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
