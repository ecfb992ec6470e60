package service

import (
	"context"
	"time"
)

// tickCadence is how often the live loop re-derives elapsed time while
// Running. Elapsed is always recomputed from the wall clock, so a
// delayed or skipped tick never loses time.
const tickCadence = time.Second

// tickLoop is one generation of the live ticker. A new generation is
// created on every transition into Running; the old one is always
// cancelled and drained first.
type tickLoop struct {
	quit chan struct{}
	done chan struct{}
}

func (c *sessionController) startTicker() {
	c.mu.Lock()
	if c.ticks != nil {
		c.mu.Unlock()
		return
	}
	t := &tickLoop{quit: make(chan struct{}), done: make(chan struct{})}
	c.ticks = t
	c.mu.Unlock()

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(tickCadence)
		defer ticker.Stop()
		for {
			select {
			case <-t.quit:
				return
			case <-ticker.C:
				c.tick(context.Background())
			}
		}
	}()
}

// stopTicker cancels the live tick loop and waits for it to drain.
// Cancellation is synchronous with the state transition: once this
// returns, no tick from the old generation can observe the session.
func (c *sessionController) stopTicker() {
	c.mu.Lock()
	t := c.ticks
	c.ticks = nil
	c.mu.Unlock()
	if t == nil {
		return
	}
	close(t.quit)
	<-t.done
}

// tick runs one live reconciliation pass.
func (c *sessionController) tick(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || c.suspended {
		return
	}
	c.reconcileLocked(ctx, c.clk.Now(), true)
}
