package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/monitoring"
	"github.com/ayusman/mudra/internal/store"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// connSet tracks open websocket connections so they can be closed on
// shutdown.
type connSet struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func (c *connSet) add(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conns == nil {
		c.conns = make(map[*websocket.Conn]bool)
	}
	c.conns[conn] = true
}

func (c *connSet) remove(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conns, conn)
}

func (c *connSet) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.conns)
}

// CloseAll closes every open connection.
func (c *connSet) CloseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for conn := range c.conns {
		conn.Close()
	}
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// SessionHandler runs a live recognition session per websocket. The
// client picks the gesture with ?gesture={id}, sends input.Event JSON
// messages and receives input.Notice JSON messages.
type SessionHandler struct {
	app *app.App
	connSet
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(a *app.App) *SessionHandler {
	return &SessionHandler{app: a}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gestureID := r.URL.Query().Get("gesture")
	if gestureID == "" {
		http.Error(w, "gesture query parameter is required", http.StatusBadRequest)
		return
	}
	if _, err := h.app.Gesture(gestureID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Gesture not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load gesture", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		monitoring.Logf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.add(conn)
	defer h.remove(conn)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	out := make(chan interface{}, 16)
	emit := func(n input.Notice) {
		select {
		case out <- n:
		case <-ctx.Done():
		}
	}

	sess, err := h.app.NewSession(gestureID, emit)
	if err != nil {
		conn.WriteJSON(errorMessage{Type: "error", Error: err.Error()})
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeLoop(conn, out)
	}()

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		sess.Run(ctx)
	}()

	for {
		var ev input.Event
		if err := conn.ReadJSON(&ev); err != nil {
			break
		}
		if err := sess.Send(ctx, ev); err != nil {
			if errors.Is(err, input.ErrInvalidEvent) {
				select {
				case out <- errorMessage{Type: "error", Error: err.Error()}:
				case <-ctx.Done():
				}
				continue
			}
			break
		}
	}

	sess.Close()
	<-runDone
	cancel()
	close(out)
	<-writerDone
}

// writeLoop writes every message from out to conn. After a failed write
// the rest are drained so senders never block.
func writeLoop(conn *websocket.Conn, out <-chan interface{}) {
	failed := false
	for msg := range out {
		if failed {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			failed = true
		}
	}
}

// matchMessage is sent to /api/matches subscribers.
type matchMessage struct {
	Type      string `json:"type"`
	GestureID string `json:"gesture_id"`
	Gesture   string `json:"gesture"`
	Score     int    `json:"score"`
	Moves     int    `json:"moves"`
	Path      string `json:"path"`
	Timestamp int64  `json:"timestamp"`
	Plugin    string `json:"plugin,omitempty"`
	Action    string `json:"action,omitempty"`
	Executed  bool   `json:"executed"`
	Skipped   string `json:"skipped,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MatchesHandler broadcasts every handled match to its websocket clients.
type MatchesHandler struct {
	connSet
	writeMu sync.Mutex
}

// NewMatchesHandler creates a new MatchesHandler.
func NewMatchesHandler() *MatchesHandler {
	return &MatchesHandler{}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *MatchesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		monitoring.Logf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.add(conn)
	defer h.remove(conn)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected subscribers.
func (h *MatchesHandler) Clients() int {
	return h.count()
}

// Broadcast sends ev to all connected clients.
func (h *MatchesHandler) Broadcast(ev app.MatchEvent) {
	msg := matchMessage{
		Type:      "match",
		GestureID: ev.GestureID,
		Gesture:   ev.GestureName,
		Score:     ev.Match.Score,
		Moves:     ev.Match.Moves,
		Path:      ev.Match.Path.String(),
		Timestamp: ev.Match.At.UnixMilli(),
		Plugin:    ev.Plugin,
		Action:    ev.Action,
		Executed:  ev.Executed,
		Skipped:   ev.Skipped,
	}
	if ev.Err != nil {
		msg.Error = ev.Err.Error()
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteJSON(msg)
	}
}
