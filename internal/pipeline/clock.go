package pipeline

import "time"

// Clock paces redraw/frame-callback dispatch at a fixed rate (spec.md
// §5's redraw-pacing paragraph), grounded on wcomp.rs's run loop:
// `std::thread::sleep(Duration::from_millis(1000/60))` after every
// processed batch of messages. A time.Ticker plays the same role
// without blocking the rest of the select loop.
type Clock struct {
	interval time.Duration
	ticker   *time.Ticker
}

// NewClock builds a Clock for the given frame rate; fps<=0 defaults to 60.
func NewClock(fps int) *Clock {
	if fps <= 0 {
		fps = 60
	}
	return &Clock{interval: time.Second / time.Duration(fps)}
}

// Start arms the ticker and returns its channel. Calling Start twice
// replaces the previous ticker.
func (c *Clock) Start() <-chan time.Time {
	c.ticker = time.NewTicker(c.interval)
	return c.ticker.C
}

// Stop releases the ticker's resources.
func (c *Clock) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
}
