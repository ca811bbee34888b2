package sse

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/werewolf-go/internal/model"
)

// Event is one named push to a subscriber
type Event struct {
	Name model.EventType
	Data []byte
}

// Render produces the event a viewer should receive. ok=false skips the viewer.
type Render func(viewer model.PlayerID) (event Event, ok bool)

// Tracker is notified as subscribers come and go
type Tracker interface {
	SubscriberConnected(transport string)
	SubscriberDisconnected(transport string)
}

type noopTracker struct{}

func (noopTracker) SubscriberConnected(string) {}
func (noopTracker) SubscriberDisconnected(string) {}

// Hub manages subscribers for a single match
type Hub struct {
	code    model.JoinCode
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger
	tracker Tracker

	register   chan *Client
	unregister chan *Client
	broadcast  chan Render
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub for a match
func NewHub(code model.JoinCode, logger *slog.Logger, tracker Tracker) *Hub {
	if tracker == nil {
		tracker = noopTracker{}
	}
	return &Hub{
		code:       code,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("match_code", string(code))),
		tracker:    tracker,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Render, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.tracker.SubscriberConnected(client.transport)
			h.logger.Info("subscriber registered",
				slog.String("player_id", string(client.playerID)),
				slog.String("transport", client.transport),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.tracker.SubscriberDisconnected(client.transport)
				h.logger.Info("subscriber unregistered",
					slog.String("player_id", string(client.playerID)),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case render := <-h.broadcast:
			h.deliver(render)

		case <-h.done:
			// Flush whatever was queued before the close, e.g. a final match-deleted
			for drained := false; !drained; {
				select {
				case render := <-h.broadcast:
					h.deliver(render)
				default:
					drained = true
				}
			}
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
				h.tracker.SubscriberDisconnected(client.transport)
			}
			h.mu.Unlock()
			h.logger.Info("hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

func (h *Hub) deliver(render Render) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for client := range h.clients {
		event, ok := render(client.playerID)
		if !ok {
			continue
		}
		select {
		case client.send <- event:
		default:
			dropped++
			h.logger.Warn("event dropped - client buffer full",
				slog.String("player_id", string(client.playerID)))
		}
	}
	if dropped > 0 {
		h.logger.Warn("broadcast partial failure", slog.Int("dropped", dropped))
	}
}

// Register adds a client to the hub. It returns false if the hub has closed.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues render for every client
func (h *Hub) Broadcast(render Render) {
	select {
	case h.broadcast <- render:
	default:
		h.logger.Warn("broadcast dropped - hub buffer full")
	}
}

// BroadcastEvent sends the same event to every client
func (h *Hub) BroadcastEvent(event Event) {
	h.Broadcast(func(model.PlayerID) (Event, bool) {
		return event, true
	})
}

// Close shuts down the hub. Safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatSSEMessage formats an SSE message with event name and data.
// Each line of data gets its own "data: " prefix.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, handling CRLF endings
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// HubManager manages hubs for all matches
type HubManager struct {
	hubs    map[model.JoinCode]*Hub
	mu      sync.RWMutex
	logger  *slog.Logger
	tracker Tracker
}

// NewHubManager creates a new HubManager. tracker may be nil.
func NewHubManager(logger *slog.Logger, tracker Tracker) *HubManager {
	return &HubManager{
		hubs:    make(map[model.JoinCode]*Hub),
		logger:  logger.With(slog.String("component", "sse")),
		tracker: tracker,
	}
}

// GetOrCreateHub returns the hub for a match, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(code model.JoinCode) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[code]; ok {
		return hub
	}

	hub := NewHub(code, m.logger, m.tracker)
	m.hubs[code] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a match, or nil if it doesn't exist
func (m *HubManager) GetHub(code model.JoinCode) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[code]
}

// HubCount returns the number of live hubs
func (m *HubManager) HubCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hubs)
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(code model.JoinCode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[code]; ok {
		hub.Close()
		delete(m.hubs, code)
		m.logger.Info("hub removed", slog.String("match_code", string(code)))
	}
}

// CleanupEmptyHubs removes hubs with no clients
func (m *HubManager) CleanupEmptyHubs() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for code, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, code)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("empty hubs cleaned up", slog.Int("removed", removed))
	}
	return removed
}

// Close shuts down every hub
func (m *HubManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, code)
	}
}
