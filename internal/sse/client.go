package sse

import (
	"net/http"
	"time"

	"github.com/mcoot/werewolf-go/internal/model"
)

const (
	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256

	TransportSSE       = "sse"
	TransportWebSocket = "websocket"
)

// Client is one connected subscriber
type Client struct {
	playerID    model.PlayerID
	transport   string
	send        chan Event
	connectedAt time.Time
}

// NewClient creates a new client for playerID. An empty playerID is a
// spectator and only sees public information.
func NewClient(playerID model.PlayerID, transport string) *Client {
	return &Client{
		playerID:    playerID,
		transport:   transport,
		send:        make(chan Event, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// Events returns the client's outgoing event stream
func (c *Client) Events() <-chan Event {
	return c.send
}

// ServeSSE streams hub events to the response until the client goes away.
// initial, if non-nil, is written before anything else.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, playerID model.PlayerID, initial *Event) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Streams outlive the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(playerID, TransportSSE)
	if !hub.Register(client) {
		http.Error(w, "Match closed", http.StatusGone)
		return
	}
	defer hub.Unregister(client)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	if initial != nil {
		_, _ = w.Write(formatSSEMessage(string(initial.Name), string(initial.Data)))
	}
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				return
			}
			if _, err := w.Write(formatSSEMessage(string(event.Name), string(event.Data))); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
