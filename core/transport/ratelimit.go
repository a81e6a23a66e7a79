package transport

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow admits at most limit acquisitions within any trailing period.
// It never rejects: Wait blocks the calling goroutine until a slot frees up.
// Order of admission among concurrent waiters is not guaranteed.
type SlidingWindow struct {
	limit  int
	period time.Duration

	mu     sync.Mutex
	stamps []time.Time
	now    func() time.Time
}

// NewSlidingWindow returns a window admitting limit acquisitions per period.
// A non-positive limit or period yields a window that never blocks.
func NewSlidingWindow(limit int, period time.Duration) *SlidingWindow {
	return &SlidingWindow{limit: limit, period: period, now: time.Now}
}

func (w *SlidingWindow) disabled() bool {
	return w == nil || w.limit <= 0 || w.period <= 0
}

// Wait blocks until a slot is available or ctx ends, and returns how long the
// caller waited.
func (w *SlidingWindow) Wait(ctx context.Context) (time.Duration, error) {
	if w.disabled() {
		return 0, ctx.Err()
	}

	start := w.now()
	for {
		delay, ok := w.tryAcquire()
		if ok {
			return w.now().Sub(start), nil
		}
		if err := sleep(ctx, delay); err != nil {
			return w.now().Sub(start), err
		}
	}
}

// tryAcquire records an acquisition if the window has room; otherwise it
// returns how long until the oldest acquisition leaves the window.
func (w *SlidingWindow) tryAcquire() (time.Duration, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	cutoff := now.Add(-w.period)
	expired := 0
	for expired < len(w.stamps) && !w.stamps[expired].After(cutoff) {
		expired++
	}
	w.stamps = w.stamps[expired:]

	if len(w.stamps) < w.limit {
		w.stamps = append(w.stamps, now)
		return 0, true
	}

	delay := w.stamps[0].Add(w.period).Sub(now)
	if delay <= 0 {
		delay = time.Millisecond
	}
	return delay, false
}

// InFlight returns the number of acquisitions still inside the window.
func (w *SlidingWindow) InFlight() int {
	if w.disabled() {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	cutoff := w.now().Add(-w.period)
	n := 0
	for _, s := range w.stamps {
		if s.After(cutoff) {
			n++
		}
	}
	return n
}

// NewRateLimitMiddleware acquires a slot from window before passing the
// request on. The slot covers the whole logical request, retries included.
func NewRateLimitMiddleware(window *SlidingWindow, metrics *Metrics) Middleware {
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request *Request) (*Response, error) {
			waited, err := window.Wait(ctx)
			if metrics != nil {
				metrics.observeThrottle(waited)
			}
			if err != nil {
				return nil, err
			}
			return next(ctx, request)
		}
	}
}
