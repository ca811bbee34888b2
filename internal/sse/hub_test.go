package sse

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "match-update",
			data:      `{"code":"WOLF23"}`,
			expected:  "event: match-update\ndata: {\"code\":\"WOLF23\"}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "chat-message",
			data:      "line1\nline2",
			expected:  "event: chat-message\ndata: line1\ndata: line2\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(tt.eventName, tt.data)))
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single line", "hello", []string{"hello"}},
		{"two lines", "line1\nline2", []string{"line1", "line2"}},
		{"trailing newline", "line1\n", []string{"line1"}},
		{"empty string", "", []string{""}},
		{"crlf line endings", "line1\r\nline2\r\n", []string{"line1", "line2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitLines(tt.input))
		})
	}
}

type countingTracker struct {
	mu        sync.Mutex
	connected map[string]int
}

func (c *countingTracker) SubscriberConnected(transport string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected == nil {
		c.connected = make(map[string]int)
	}
	c.connected[transport]++
}

func (c *countingTracker) SubscriberDisconnected(transport string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected[transport]--
}

func (c *countingTracker) count(transport string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected[transport]
}

func startHub(t *testing.T, tracker Tracker) *Hub {
	t.Helper()
	hub := NewHub("WOLF23", testutil.NopLogger(), tracker)
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

// register adds client and waits for the hub to have processed it
func register(t *testing.T, hub *Hub, client *Client) {
	t.Helper()
	before := hub.ClientCount()
	require.True(t, hub.Register(client))
	require.Eventually(t, func() bool {
		return hub.ClientCount() == before+1
	}, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case event := <-client.send:
		return event
	case <-time.After(time.Second):
		t.Fatal("client did not receive event")
		return Event{}
	}
}

func assertNothing(t *testing.T, client *Client) {
	t.Helper()
	select {
	case event := <-client.send:
		t.Fatalf("unexpected event %q", event.Name)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub := startHub(t, nil)

	client := NewClient("player1", TransportSSE)
	register(t, hub, client)

	hub.BroadcastEvent(Event{Name: model.EventTimerSync, Data: []byte("{}")})

	event := receive(t, client)
	assert.Equal(t, model.EventTimerSync, event.Name)
	assert.Equal(t, "{}", string(event.Data))
}

func TestHubRendersPerViewer(t *testing.T) {
	hub := startHub(t, nil)

	alice := NewClient("alice", TransportSSE)
	bob := NewClient("bob", TransportSSE)
	spectator := NewClient("", TransportSSE)
	for _, c := range []*Client{alice, bob, spectator} {
		register(t, hub, c)
	}

	hub.Broadcast(func(viewer model.PlayerID) (Event, bool) {
		if viewer == "" {
			return Event{}, false
		}
		return Event{Name: model.EventMatchUpdate, Data: []byte(viewer)}, true
	})

	assert.Equal(t, "alice", string(receive(t, alice).Data))
	assert.Equal(t, "bob", string(receive(t, bob).Data))
	assertNothing(t, spectator)
}

func TestHubUnregister(t *testing.T) {
	tracker := &countingTracker{}
	hub := startHub(t, tracker)

	client := NewClient("player1", TransportWebSocket)
	register(t, hub, client)
	assert.Eventually(t, func() bool {
		return tracker.count(TransportWebSocket) == 1
	}, time.Second, 5*time.Millisecond)

	hub.Unregister(client)
	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 0 && tracker.count(TransportWebSocket) == 0
	}, time.Second, 5*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open)
}

func TestHubCloseFlushesQueuedEvents(t *testing.T) {
	tracker := &countingTracker{}
	hub := NewHub("WOLF23", testutil.NopLogger(), tracker)
	go hub.Run()

	client := NewClient("player1", TransportSSE)
	register(t, hub, client)

	hub.BroadcastEvent(Event{Name: model.EventMatchDeleted})
	hub.Close()
	hub.Close()

	event := receive(t, client)
	assert.Equal(t, model.EventMatchDeleted, event.Name)
	_, open := <-client.send
	assert.False(t, open)
	assert.Eventually(t, func() bool {
		return tracker.count(TransportSSE) == 0
	}, time.Second, 5*time.Millisecond)

	assert.False(t, hub.Register(NewClient("late", TransportSSE)))
}

func TestHubManagerGetOrCreateHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger(), nil)
	defer manager.Close()

	hub1 := manager.GetOrCreateHub("ABC234")
	hub2 := manager.GetOrCreateHub("ABC234")
	hub3 := manager.GetOrCreateHub("XYZ789")

	assert.Same(t, hub1, hub2)
	assert.NotSame(t, hub1, hub3)
	assert.Equal(t, 2, manager.HubCount())
	assert.Same(t, hub1, manager.GetHub("ABC234"))
	assert.Nil(t, manager.GetHub("NOPE23"))
}

func TestHubManagerRemoveHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger(), nil)
	manager.GetOrCreateHub("ABC234")

	manager.RemoveHub("ABC234")
	manager.RemoveHub("ABC234")

	assert.Nil(t, manager.GetHub("ABC234"))
	assert.Equal(t, 0, manager.HubCount())
}

func TestHubManagerCleanupEmptyHubs(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger(), nil)
	defer manager.Close()

	busy := manager.GetOrCreateHub("BUSY23")
	manager.GetOrCreateHub("IDLE23")
	register(t, busy, NewClient("player1", TransportSSE))

	assert.Equal(t, 1, manager.CleanupEmptyHubs())
	assert.NotNil(t, manager.GetHub("BUSY23"))
	assert.Nil(t, manager.GetHub("IDLE23"))
}
