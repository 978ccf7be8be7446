package http

import (
	"sync"
	"time"
)

// rateLimiter is a fixed-window counter kept per client key.
type rateLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	clients   map[string]*clientWindow
	lastSweep time.Time
	now       func() time.Time
}

type clientWindow struct {
	counter int
	start   time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  time.Minute,
		clients: make(map[string]*clientWindow),
		now:     time.Now,
	}
}

func (r *rateLimiter) allow(key string) bool {
	if r == nil || r.limit <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	w, ok := r.clients[key]
	if !ok || now.Sub(w.start) >= r.window {
		w = &clientWindow{start: now}
		r.clients[key] = w
	}
	w.counter++
	return w.counter <= r.limit
}

// sweep drops expired windows at most once per window. Caller holds mu.
func (r *rateLimiter) sweep(now time.Time) {
	if now.Sub(r.lastSweep) < r.window {
		return
	}
	r.lastSweep = now
	for key, w := range r.clients {
		if now.Sub(w.start) >= r.window {
			delete(r.clients, key)
		}
	}
}
