// Package clock provides the level countdown used by tournaments.
package clock

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Clock counts down the time left in the current level. It has no goroutine
// of its own: time only moves when Tick is called.
type Clock struct {
	clock quartz.Clock

	mu        sync.Mutex
	remaining time.Duration
	running   bool
	tickBegin time.Time
}

// New creates a stopped clock with no time remaining. A nil quartz clock
// means the real wall clock.
func New(c quartz.Clock) *Clock {
	if c == nil {
		c = quartz.NewReal()
	}
	return &Clock{clock: c}
}

// SetSecondsRemaining replaces the remaining time.
func (c *Clock) SetSecondsRemaining(seconds int) {
	c.SetRemaining(time.Duration(seconds) * time.Second)
}

// SetMillisRemaining replaces the remaining time.
func (c *Clock) SetMillisRemaining(millis int64) {
	c.SetRemaining(time.Duration(millis) * time.Millisecond)
}

// SetRemaining replaces the remaining time and restarts the tick base.
func (c *Clock) SetRemaining(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickBegin = c.clock.Now()
	c.remaining = d
}

func (c *Clock) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// SecondsRemaining truncates toward zero.
func (c *Clock) SecondsRemaining() int {
	return int(c.Remaining() / time.Second)
}

func (c *Clock) MillisRemaining() int64 {
	return c.Remaining().Milliseconds()
}

func (c *Clock) IsExpired() bool {
	return c.Remaining() <= 0
}

func (c *Clock) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Start resumes counting. Starting a running clock does nothing.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.tickBegin = c.clock.Now()
	c.running = true
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
}

// Tick subtracts the time elapsed since the previous tick (or start). When
// the remaining time runs out it is clamped to zero and the clock stops.
func (c *Clock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}

	now := c.clock.Now()
	elapsed := now.Sub(c.tickBegin)
	if elapsed >= c.remaining {
		c.remaining = 0
		c.running = false
	} else {
		c.remaining -= elapsed
	}
	c.tickBegin = now
}

// Reset stops the clock and sets a fresh countdown.
func (c *Clock) Reset(seconds int) {
	c.Stop()
	c.SetSecondsRemaining(seconds)
}
