// Package httpbridge implements the external HTTP collaborator described
// in spec 6: GET /health, POST /assess, and an optional websocket push of
// completed assessments for live-viewing clients, grounded on the
// teacher's websocket.Hub broadcast shape (typed Message envelope, an
// initial-state push on connect, origin-checked upgrades).
package httpbridge

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Message is the typed envelope pushed to every connected client, mirroring
// the teacher's {type, data} shape.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans out assessment and health events to connected websocket
// clients. Its own state (the client set) is guarded by a mutex, the same
// shared-state pattern the rest of this SDK's owners use.
type Hub struct {
	mu              sync.RWMutex
	clients         map[*websocket.Conn]struct{}
	broadcast       chan Message
	stateGetter     func() any
	allowedOrigins  []string
	upgrader        websocket.Upgrader
}

// NewHub constructs a Hub. stateGetter supplies the payload sent to a
// client immediately after it connects.
func NewHub(stateGetter func() any) *Hub {
	h := &Hub{
		clients:     make(map[*websocket.Conn]struct{}),
		broadcast:   make(chan Message, 64),
		stateGetter: stateGetter,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// SetAllowedOrigins restricts websocket upgrades to the given Origin
// header values; "*" allows any origin, an empty list allows same-host
// connections only.
func (h *Hub) SetAllowedOrigins(origins []string) {
	h.mu.Lock()
	h.allowedOrigins = origins
	h.mu.Unlock()
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	origin := r.Header.Get("Origin")
	if len(h.allowedOrigins) == 0 {
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// Run drains the broadcast channel and fans each message out to every
// connected client, dropping any client whose write fails.
func (h *Hub) Run() {
	for msg := range h.broadcast {
		h.mu.RLock()
		conns := make([]*websocket.Conn, 0, len(h.clients))
		for c := range h.clients {
			conns = append(conns, c)
		}
		h.mu.RUnlock()

		for _, c := range conns {
			if err := c.WriteJSON(msg); err != nil {
				h.removeClient(c)
			}
		}
	}
}

// BroadcastAssessment pushes a completed assessment to every client.
func (h *Hub) BroadcastAssessment(assessment any) {
	select {
	case h.broadcast <- Message{Type: "assessment", Data: assessment}:
	default:
		log.Warn().Msg("httpbridge: broadcast channel full, dropping assessment push")
	}
}

// BroadcastHealth pushes a health snapshot to every client.
func (h *Hub) BroadcastHealth(health any) {
	select {
	case h.broadcast <- Message{Type: "health", Data: health}:
	default:
		log.Warn().Msg("httpbridge: broadcast channel full, dropping health push")
	}
}

// HandleWebSocket upgrades the request and registers the connection,
// sending the initial state message before entering its read loop (used
// only to detect client disconnects; this hub is push-only).
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("httpbridge: websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	if h.stateGetter != nil {
		_ = conn.WriteJSON(Message{Type: "initialState", Data: h.stateGetter()})
	}

	go h.readLoop(conn)
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.removeClient(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// jsonResponse writes v as a JSON response body with the given status.
func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
