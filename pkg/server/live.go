package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	ierrors "github.com/Jboschlagos/Emmet-Cloude/internal/errors"
	"github.com/Jboschlagos/Emmet-Cloude/pkg/emmet"
	"github.com/Jboschlagos/Emmet-Cloude/pkg/middleware"
)

// Live message types.
const (
	LiveMarkup = "markup"
	LiveEmpty  = "empty"
	LiveError  = "error"
)

const liveWriteWait = 10 * time.Second

// LiveMessage is the reply to one live frame.
type LiveMessage struct {
	Type   string `json:"type"`
	Markup string `json:"markup"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

// LiveHub manages live playground connections. Every text frame a client
// sends is an abbreviation and is answered with one LiveMessage.
type LiveHub struct {
	server   *Server
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
	closed  bool
}

func newLiveHub(s *Server) *LiveHub {
	return &LiveHub{
		server: s,
		logger: s.logger.With("component", "live"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     s.config.CheckOrigin,
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// HandleWebSocket upgrades the request and serves the connection until the
// client disconnects or the hub is closed.
func (h *LiveHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		middleware.RecordWebSocketError("upgrade")
		h.logger.Debug("live upgrade failed", "error", ierrors.New("E060").Wrap(err))
		return
	}

	if !h.add(conn) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}
	defer h.remove(conn)

	// Clear the deadlines the HTTP server set before the hijack.
	_ = conn.SetReadDeadline(time.Time{})
	conn.SetReadLimit(h.server.config.MaxMessageSize)

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				middleware.RecordWebSocketError("read")
				h.logger.Debug("live read failed", "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		msg := h.reply(r, string(data))
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		if err := conn.WriteJSON(msg); err != nil {
			middleware.RecordWebSocketError("write")
			h.logger.Debug("live write failed", "error", err)
			return
		}
	}
}

// reply expands one frame. Failures are reported to the client and never
// end the session.
func (h *LiveHub) reply(r *http.Request, abbr string) LiveMessage {
	markup, err := h.server.expand(r.Context(), abbr)
	if err != nil {
		return LiveMessage{
			Type:   LiveError,
			Markup: emmet.UnrecognizedHint,
			Error:  err.Error(),
			Code:   ierrors.FromError(err, "E003").Code,
		}
	}
	if markup == "" {
		return LiveMessage{Type: LiveEmpty}
	}
	return LiveMessage{Type: LiveMarkup, Markup: markup}
}

func (h *LiveHub) add(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[conn] = true
	middleware.RecordLiveClient(1)
	return true
}

func (h *LiveHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		middleware.RecordLiveClient(-1)
	}
	h.mu.Unlock()
	conn.Close()
}

// ClientCount returns the number of connected clients.
func (h *LiveHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close sends a going-away frame to every client and disconnects them.
// Connections arriving afterwards are refused.
func (h *LiveHub) Close() {
	h.mu.Lock()
	h.closed = true
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	deadline := time.Now().Add(time.Second)
	for _, conn := range conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			deadline)
		conn.Close()
	}
}
