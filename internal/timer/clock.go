package timer

import (
	"sync"
	"time"
)

// Clock abstracts time for the countdown.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }

func (r realTicker) Stop() { r.t.Stop() }

// ManualClock is a Clock advanced explicitly, for tests.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

// NewManualClock returns a ManualClock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the manual time.
func (m *ManualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// NewTicker registers a ticker fired by Advance.
func (m *ManualClock) NewTicker(d time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTicker{
		c:       make(chan time.Time),
		stopped: make(chan struct{}),
		every:   d,
		next:    m.now.Add(d),
	}
	m.tickers = append(m.tickers, t)
	return t
}

// Advance moves time forward by d and delivers every tick that falls due.
// Each delivery blocks until the ticker's reader takes it or the ticker stops.
func (m *ManualClock) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	tickers := append([]*manualTicker(nil), m.tickers...)
	m.mu.Unlock()

	for {
		var due *manualTicker
		for _, t := range tickers {
			if t.isStopped() || t.next.After(target) {
				continue
			}
			if due == nil || t.next.Before(due.next) {
				due = t
			}
		}
		if due == nil {
			break
		}
		at := due.next
		due.next = at.Add(due.every)
		m.mu.Lock()
		m.now = at
		m.mu.Unlock()
		select {
		case due.c <- at:
		case <-due.stopped:
		}
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
}

type manualTicker struct {
	c       chan time.Time
	stopped chan struct{}
	once    sync.Once
	every   time.Duration
	next    time.Time
}

func (t *manualTicker) C() <-chan time.Time { return t.c }

func (t *manualTicker) Stop() {
	t.once.Do(func() { close(t.stopped) })
}

func (t *manualTicker) isStopped() bool {
	select {
	case <-t.stopped:
		return true
	default:
		return false
	}
}
