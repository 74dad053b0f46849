package csrf

import (
	"container/list"
	"errors"
	"sync"
)

var ErrInvalidCacheSize = errors.New("cache size must be a positive integer")

// NonceCache is a fixed-capacity, insertion-ordered set of the nonces most
// recently issued to one session. When the cache is over capacity the oldest
// nonce is evicted, which bounds the replay window: any of the last N nonces
// is accepted, not just the newest one. That slack is what keeps multiple
// tabs of the same session working.
//
// One instance belongs to exactly one session and is shared by every
// concurrent request of that session, so all operations are internally
// synchronized.
type NonceCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = newest, back = oldest
	present  map[string]*list.Element
}

// NewNonceCache creates a cache holding up to capacity nonces.
//
// Returns:
// - the cache, or ErrInvalidCacheSize when capacity is not positive.
func NewNonceCache(capacity int) (*NonceCache, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCacheSize
	}
	return &NonceCache{
		capacity: capacity,
		order:    list.New(),
		present:  make(map[string]*list.Element, capacity),
	}, nil
}

// Add inserts nonce as the newest entry, evicting the oldest one when the
// cache would exceed its capacity. Adding a nonce that is already present
// refreshes its recency instead of growing the cache.
func (c *NonceCache) Add(nonce string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.present[nonce]; ok {
		c.order.MoveToFront(el)
		return
	}

	c.present[nonce] = c.order.PushFront(nonce)

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.present, oldest.Value.(string))
	}
}

// Contains reports whether nonce was previously issued and is still inside
// the replay window. The empty string is never contained, so a request
// missing the parameter entirely tests as invalid rather than crashing.
func (c *NonceCache) Contains(nonce string) bool {
	if nonce == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.present[nonce]
	return ok
}

// Len returns the current number of cached nonces.
func (c *NonceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// Nonces returns the cached nonces from oldest to newest.
func (c *NonceCache) Nonces() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, c.order.Len())
	for el := c.order.Back(); el != nil; el = el.Prev() {
		out = append(out, el.Value.(string))
	}
	return out
}
