// Package websocket pushes catalogue events to connected browsers and tools.
package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"path"
	"sync"

	"github.com/gorilla/websocket"
)

// EventCatalogReloaded is sent after a new seed has been imported.
const EventCatalogReloaded = "catalog:reloaded"

// Event is a message broadcast to every client.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ReloadedData is the payload of EventCatalogReloaded.
type ReloadedData struct {
	RunID       string `json:"run_id"`
	Count       int    `json:"count"`
	Fingerprint string `json:"fingerprint"`
}

// Hub tracks connected clients and fans events out to them.
type Hub struct {
	upgrader websocket.Upgrader

	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	done     chan struct{}
	stopOnce sync.Once
	stopped  bool
	mu       sync.RWMutex
}

// NewHub creates a hub. allowedOrigins are host patterns such as
// "localhost:*"; an empty list accepts any origin.
func NewHub(allowedOrigins ...string) *Hub {
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(patterns []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if len(patterns) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Non-browser clients don't send an Origin.
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		for _, p := range patterns {
			if ok, _ := path.Match(p, u.Host); ok {
				return true
			}
		}
		return false
	}
}

// Run processes registrations and broadcasts until ctx is cancelled or Stop
// is called.
func (h *Hub) Run(ctx context.Context) error {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-h.done:
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("WebSocket client connected. Total clients: %d", n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("WebSocket client disconnected. Total clients: %d", n)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than block everyone.
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) shutdown() {
	h.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	log.Println("WebSocket hub stopped")
}

// Publish broadcasts an event. It returns false once the hub has stopped.
func (h *Hub) Publish(eventType string, data any) bool {
	if h.IsStopped() {
		return false
	}

	msg, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		log.Printf("Error marshaling WebSocket event %s: %v", eventType, err)
		return false
	}

	select {
	case h.broadcast <- msg:
		return true
	case <-h.done:
		return false
	}
}

// CatalogReloaded announces a finished import.
func (h *Hub) CatalogReloaded(runID string, count int, fingerprint string) bool {
	return h.Publish(EventCatalogReloaded, ReloadedData{RunID: runID, Count: count, Fingerprint: fingerprint})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop ends Run. It is safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

// IsStopped reports whether Run has finished.
func (h *Hub) IsStopped() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stopped
}

// ServeWs upgrades the request and registers the connection.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	if h.IsStopped() {
		http.Error(w, "WebSocket hub is not running", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := newClient(h, conn)

	select {
	case h.register <- client:
		go client.writePump()
		go client.readPump()
	case <-h.done:
		if err := conn.Close(); err != nil {
			log.Printf("WebSocket close error: %v", err)
		}
	}
}
