package editor

import (
	"context"
	"sync"
)

// Coalescer serializes saves: at most one runs at a time, and requests made while
// one runs collapse into a single follow-up run.
type Coalescer struct {
	mu       sync.Mutex
	run      func()
	inFlight bool
	again    bool
	idle     chan struct{}
}

// NewCoalescer builds a Coalescer around run, which performs one save of the
// document as it is when run starts.
func NewCoalescer(run func()) *Coalescer {
	idle := make(chan struct{})
	close(idle)
	return &Coalescer{run: run, idle: idle}
}

// RequestSave starts a save, or marks one to follow the save in flight.
func (c *Coalescer) RequestSave() {
	c.mu.Lock()
	if c.inFlight {
		c.again = true
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.idle = make(chan struct{})
	c.mu.Unlock()

	go c.loop()
}

func (c *Coalescer) loop() {
	for {
		c.run()

		c.mu.Lock()
		if c.again {
			c.again = false
			c.mu.Unlock()
			continue
		}
		c.inFlight = false
		close(c.idle)
		c.mu.Unlock()
		return
	}
}

// InFlight reports whether a save is running.
func (c *Coalescer) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Wait blocks until no save is running or queued.
func (c *Coalescer) Wait(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
