package poster

import (
	"strings"
	"sync"
	"time"
)

// Clock returns the current time. Tests swap it to move time forward.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type entry struct {
	url    string
	expiry time.Time
}

// Cache maps normalized (title, year) keys to resolved URLs. Expired entries
// are skipped on read and overwritten on the next successful resolve.
type Cache struct {
	mu    sync.Mutex
	items map[string]entry
	ttl   time.Duration
	clock Clock
}

func NewCache(ttl time.Duration, clock Clock) *Cache {
	if clock == nil {
		clock = ClockFunc(time.Now)
	}
	return &Cache{items: make(map[string]entry), ttl: ttl, clock: clock}
}

// Key normalizes a lookup as lowercase "title|year".
func Key(title, year string) string {
	return strings.ToLower(strings.TrimSpace(title) + "|" + strings.TrimSpace(year))
}

// Get returns the cached URL when the entry exists and has not expired.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok || !c.clock.Now().Before(e.expiry) {
		return "", false
	}
	return e.url, true
}

// Set stores url under key until now + ttl.
func (c *Cache) Set(key, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry{url: url, expiry: c.clock.Now().Add(c.ttl)}
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
