package sources

import (
	"context"
	"sync"
)

// Cache memoizes successful lookups from the wrapped store for the life
// of the process. Failures are never cached; concurrent requests for the
// same name share one underlying fetch.
type Cache struct {
	store Store

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	ready chan struct{}
	src   string
	err   error
}

func NewCache(store Store) *Cache {
	return &Cache{
		store:   store,
		entries: make(map[string]*cacheEntry),
	}
}

func (c *Cache) Source(ctx context.Context, name string) (string, error) {
	c.mu.Lock()
	e, ok := c.entries[name]
	if ok {
		c.mu.Unlock()
		select {
		case <-e.ready:
			return e.src, e.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	e = &cacheEntry{ready: make(chan struct{})}
	c.entries[name] = e
	c.mu.Unlock()

	e.src, e.err = c.store.Source(ctx, name)
	if e.err != nil {
		// drop the entry before waking waiters so later calls retry
		c.mu.Lock()
		delete(c.entries, name)
		c.mu.Unlock()
	}
	close(e.ready)

	return e.src, e.err
}
