package ratelimit

import (
	"sync"
	"time"
)

// ActionCache remembers the last time a key performed an action. It backs
// minimum-spacing checks between consecutive submissions. Entries are evicted
// opportunistically once the cache grows past maxEntries: anything idle
// longer than maxIdle is dropped. State is process-local, so spacing resets
// on restart and is not shared between instances.
type ActionCache struct {
	lastAction map[string]time.Time
	maxEntries int
	maxIdle    time.Duration
	mu         sync.Mutex
}

// NewActionCache creates a cache evicting entries idle for maxIdle once the
// cache holds more than maxEntries keys.
func NewActionCache(maxEntries int, maxIdle time.Duration) *ActionCache {
	if maxEntries < 1 {
		maxEntries = 1000
	}
	return &ActionCache{
		lastAction: make(map[string]time.Time),
		maxEntries: maxEntries,
		maxIdle:    maxIdle,
	}
}

// SinceLast returns how long ago the key last acted, and whether the key was
// seen at all.
func (c *ActionCache) SinceLast(key string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	last, ok := c.lastAction[key]
	if !ok {
		return 0, false
	}
	return time.Since(last), true
}

// Record marks the key as having acted now, evicting stale entries if the
// cache is over capacity.
func (c *ActionCache) Record(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastAction[key] = time.Now()

	if len(c.lastAction) > c.maxEntries {
		cutoff := time.Now().Add(-c.maxIdle)
		for k, t := range c.lastAction {
			if t.Before(cutoff) {
				delete(c.lastAction, k)
			}
		}
	}
}

// Len returns the number of tracked keys.
func (c *ActionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lastAction)
}
