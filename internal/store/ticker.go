package store

import (
	"sync"
	"time"
)

// Ticker drives a session's elapsed-time updates at a fixed granularity.
// It accumulates active milliseconds across pause/resume cycles and feeds
// the cumulative value to its callback, matching the absolute-elapsed
// tick contract of the session managers. Sub-second wall-clock accuracy is
// not a goal; elapsed time advances by one interval per fire.
type Ticker struct {
	interval time.Duration
	fn       func(elapsedMs int64)

	mu      sync.Mutex
	stop    chan struct{}
	elapsed int64
}

// NewTicker returns a stopped ticker. The callback runs on the ticker's
// goroutine and must not call back into ticker methods.
func NewTicker(interval time.Duration, fn func(elapsedMs int64)) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{interval: interval, fn: fn}
}

// Start resets accumulated time to zero and begins ticking. Any previous
// run is stopped first.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.halt()
	t.elapsed = 0
	t.launch()
}

// Resume continues ticking from the accumulated time. No-op while running.
func (t *Ticker) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	t.launch()
}

// Pause stops ticking but keeps the accumulated time. A tick already in
// flight may still deliver once; the session managers absorb it.
func (t *Ticker) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.halt()
}

// Stop stops ticking and discards the accumulated time. Idempotent.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.halt()
	t.elapsed = 0
}

// Elapsed returns the accumulated active milliseconds.
func (t *Ticker) Elapsed() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

// halt signals the current loop to exit. Caller holds t.mu.
func (t *Ticker) halt() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// launch starts the tick loop. Caller holds t.mu.
func (t *Ticker) launch() {
	stop := make(chan struct{})
	t.stop = stop
	go t.run(stop)
}

func (t *Ticker) run(stop chan struct{}) {
	tick := time.NewTicker(t.interval)
	defer tick.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tick.C:
			t.mu.Lock()
			if t.stop != stop {
				// A pause or stop raced this fire; drop it.
				t.mu.Unlock()
				return
			}
			t.elapsed += t.interval.Milliseconds()
			elapsed := t.elapsed
			t.mu.Unlock()
			// Called without holding t.mu so the callback may take the
			// store lock while store operations take ticker locks.
			t.fn(elapsed)
		}
	}
}
