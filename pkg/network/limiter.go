package network

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per key (target host).
type Limiter struct {
	keys map[string]*rate.Limiter
	mu   *sync.RWMutex
	r    rate.Limit
	b    int
}

// NewLimiter allows r requests per second with bursts of b for every host.
func NewLimiter(r rate.Limit, b int) *Limiter {
	return &Limiter{
		keys: make(map[string]*rate.Limiter),
		mu:   &sync.RWMutex{},
		r:    r,
		b:    b,
	}
}

// Add creates a new rate limiter and adds it to the keys map,
// using the key
func (i *Limiter) Add(key string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	if limiter, exists := i.keys[key]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(i.r, i.b)
	i.keys[key] = limiter
	return limiter
}

// GetLimiter returns the rate limiter for the provided key if it exists.
// Otherwise, calls Add to add key address to the map
func (i *Limiter) GetLimiter(key string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.keys[key]
	i.mu.RUnlock()

	if !exists {
		return i.Add(key)
	}
	return limiter
}

// Wait blocks until the bucket of key has a token or ctx is done.
func (i *Limiter) Wait(ctx context.Context, key string) error {
	return i.GetLimiter(key).Wait(ctx)
}
