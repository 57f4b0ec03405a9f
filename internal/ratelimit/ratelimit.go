// Package ratelimit implements sliding-window admission control for the
// upstream quote API quota (e.g. at most 60 calls in any trailing 30s).
package ratelimit

import (
	"sync"
	"time"
)

// margin is added to every computed wait so a request never lands on the
// exact window boundary.
const margin = 100 * time.Millisecond

// Limiter admits requests so that no trailing window ever contains more
// than max recorded instants. A sliding window, not a resettable bucket:
// bursts straddling a bucket boundary can never exceed the quota.
//
// The mutex is held across the wait so concurrent callers sharing one
// Limiter queue up and the global quota invariant holds.
type Limiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	stamps []time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// New returns a limiter admitting at most max requests per trailing
// window.
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:    max,
		window: window,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Acquire blocks until a request may proceed without violating the
// quota, then records the request instant.
func (l *Limiter) Acquire() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)

	if len(l.stamps) >= l.max {
		wait := l.window - now.Sub(l.stamps[0]) + margin
		l.sleep(wait)
		now = l.now()
		l.evict(now)
	}

	l.stamps = append(l.stamps, now)
}

// Len reports how many requests are inside the current window.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict(l.now())
	return len(l.stamps)
}

// evict drops stamps older than the window from the front. Callers hold
// the mutex.
func (l *Limiter) evict(now time.Time) {
	i := 0
	for i < len(l.stamps) && now.Sub(l.stamps[i]) > l.window {
		i++
	}
	if i > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[i:]...)
	}
}
