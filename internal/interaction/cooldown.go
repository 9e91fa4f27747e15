package interaction

import (
	"sync"
	"time"
)

// DefaultCooldown is the debounce window applied to control activations.
const DefaultCooldown = time.Second

// Cooldown is the set of users currently rate-limited. Entries expire after
// the window; expired entries are swept lazily.
type Cooldown struct {
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	until     map[string]time.Time
	lastSweep time.Time
}

// NewCooldown creates an empty set. A window <= 0 uses DefaultCooldown.
func NewCooldown(window time.Duration, now func() time.Time) *Cooldown {
	if window <= 0 {
		window = DefaultCooldown
	}
	if now == nil {
		now = time.Now
	}
	return &Cooldown{
		window:    window,
		now:       now,
		until:     make(map[string]time.Time, 256),
		lastSweep: now(),
	}
}

// Acquire inserts userID and returns true, or returns false when userID is
// still cooling down from a previous activation.
func (c *Cooldown) Acquire(userID string) bool {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) >= c.window {
		c.sweepLocked(now)
	}

	if exp, ok := c.until[userID]; ok && now.Before(exp) {
		return false
	}
	c.until[userID] = now.Add(c.window)
	return true
}

// Active reports whether userID is cooling down.
func (c *Cooldown) Active(userID string) bool {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	exp, ok := c.until[userID]
	return ok && now.Before(exp)
}

// Len returns the number of tracked users, expired ones included until the
// next sweep.
func (c *Cooldown) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.until)
}

func (c *Cooldown) sweepLocked(now time.Time) {
	for id, exp := range c.until {
		if !now.Before(exp) {
			delete(c.until, id)
		}
	}
	c.lastSweep = now
}
