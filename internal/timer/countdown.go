// Package timer provides the per-question countdown.
package timer

import "time"

// DefaultInterval is the tick granularity of a Countdown.
const DefaultInterval = 100 * time.Millisecond

// Post hands a callback to the owner's serialized loop.
type Post func(func())

// Countdown is a cancelable, tick-driven countdown. Arm and Cancel must be
// called from the same loop that runs posted callbacks.
type Countdown struct {
	clock    Clock
	interval time.Duration
	post     Post

	gen  uint64
	stop chan struct{}
}

// Option configures a Countdown.
type Option func(*Countdown)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(cd *Countdown) {
		cd.clock = c
	}
}

// WithInterval sets the tick interval. Non-positive values keep the default.
func WithInterval(d time.Duration) Option {
	return func(cd *Countdown) {
		if d > 0 {
			cd.interval = d
		}
	}
}

// New returns an unarmed Countdown that delivers callbacks through post.
func New(post Post, opts ...Option) *Countdown {
	cd := &Countdown{
		clock:    realClock{},
		interval: DefaultInterval,
		post:     post,
	}
	for _, opt := range opts {
		opt(cd)
	}
	return cd
}

// Armed reports whether a countdown is running.
func (c *Countdown) Armed() bool {
	return c.stop != nil
}

// Arm starts counting down from d, cancelling any previous arm. onTick
// receives the remaining time after every tick, ending with zero; onExpire
// runs once after the final tick unless Cancel is called first.
func (c *Countdown) Arm(d time.Duration, onTick func(remaining time.Duration), onExpire func()) {
	c.Cancel()
	if d < 0 {
		d = 0
	}
	c.gen++
	gen := c.gen
	stop := make(chan struct{})
	c.stop = stop

	// The deadline is read before the ticker starts so the final tick lands on it.
	deadline := c.clock.Now().Add(d)
	ticker := c.clock.NewTicker(c.interval)
	go c.run(ticker, stop, deadline, d, func(remaining time.Duration, expired bool) {
		if c.gen != gen {
			return
		}
		if onTick != nil {
			onTick(remaining)
		}
		if !expired {
			return
		}
		c.disarm()
		if onExpire != nil {
			onExpire()
		}
	})
}

// Cancel stops the running countdown. Safe to call at any time.
func (c *Countdown) Cancel() {
	if c.stop == nil {
		return
	}
	c.disarm()
}

func (c *Countdown) disarm() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.gen++
}

func (c *Countdown) run(ticker Ticker, stop <-chan struct{}, deadline time.Time, total time.Duration, deliver func(time.Duration, bool)) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C():
			remaining := deadline.Sub(now)
			if remaining > total {
				remaining = total
			}
			expired := remaining <= 0
			if expired {
				remaining = 0
			}
			c.post(func() { deliver(remaining, expired) })
			if expired {
				return
			}
		}
	}
}
