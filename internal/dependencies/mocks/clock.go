package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/werewolf-go/internal/dependencies/clock"
)

// MockClock is a manually driven Clock for testing
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
	tickers     []chan time.Time
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CurrentTime
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentTime = t
}

// Ticker returns a channel that only fires when Tick is called
func (c *MockClock) Ticker(time.Duration) (<-chan time.Time, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time)
	c.tickers = append(c.tickers, ch)
	idx := len(c.tickers) - 1
	stop := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if idx < len(c.tickers) {
			c.tickers[idx] = nil
		}
	}
	return ch, stop
}

// TickerCount returns how many tickers are still running
func (c *MockClock) TickerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ch := range c.tickers {
		if ch != nil {
			n++
		}
	}
	return n
}

// Tick delivers one tick to every running ticker, blocking until each is received
func (c *MockClock) Tick() {
	c.mu.Lock()
	now := c.CurrentTime
	chans := make([]chan time.Time, 0, len(c.tickers))
	for _, ch := range c.tickers {
		if ch != nil {
			chans = append(chans, ch)
		}
	}
	c.mu.Unlock()

	for _, ch := range chans {
		select {
		case ch <- now:
		case <-time.After(time.Second):
		}
	}
}
