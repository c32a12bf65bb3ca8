package api

import (
	"net/http"
	"sync"
	"time"

	"CycleWatch/internal/domain/models"
	xlogger "CycleWatch/pkg/logger"

	"github.com/gorilla/websocket"
)

const (
	updateTypeInitial = "INITIAL"
	updateTypeRefresh = "REFRESH"

	writeWait = 10 * time.Second
)

// StreamUpdate is the frame pushed to every WebSocket client after a refresh
// cycle, and once on connect when a snapshot already exists.
type StreamUpdate struct {
	Type       string               `json:"type"`
	View       *models.SnapshotView `json:"view"`
	Evaluation *models.Evaluation   `json:"evaluation"`
}

// wsClient serializes writes to one connection. Gorilla connections allow at
// most one concurrent writer, and broadcast and shutdown run on different
// goroutines.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (cl *wsClient) writeJSON(v interface{}) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return cl.conn.WriteJSON(v)
}

func (cl *wsClient) writeClose() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = cl.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
}

// Hub fans refreshed views out to the connected WebSocket clients. It
// implements usecase.Broadcaster.
type Hub struct {
	logger   *xlogger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func NewHub(logger *xlogger.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard is same-origin; embeds only pull iframes.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: map[*wsClient]struct{}{},
	}
}

// Serve upgrades the request, registers the connection and blocks until the
// client goes away. initial may be nil when no snapshot exists yet.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, initial *StreamUpdate) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	cl := &wsClient{conn: conn}

	if initial != nil {
		if err := cl.writeJSON(initial); err != nil {
			conn.Close()
			return nil
		}
	}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("ws client connected", xlogger.Int("clients", total))

	// Drain the read side so close frames and errors are noticed. Clients
	// never send data frames.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.drop(cl)
	return nil
}

// Broadcast pushes the refreshed view to every client. Slow or dead clients
// are dropped instead of blocking the refresh loop.
func (h *Hub) Broadcast(view *models.SnapshotView, eval *models.Evaluation) {
	update := &StreamUpdate{Type: updateTypeRefresh, View: view, Evaluation: eval}

	for _, cl := range h.snapshot() {
		if err := cl.writeJSON(update); err != nil {
			h.logger.Debug("ws client dropped", xlogger.Error(err))
			h.drop(cl)
		}
	}
}

func (h *Hub) snapshot() []*wsClient {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*wsClient, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	return clients
}

func (h *Hub) drop(cl *wsClient) {
	h.mu.Lock()
	delete(h.clients, cl)
	h.mu.Unlock()
	cl.conn.Close()
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.clients = map[*wsClient]struct{}{}
	h.mu.Unlock()

	for _, cl := range clients {
		cl.writeClose()
		cl.conn.Close()
	}
}
