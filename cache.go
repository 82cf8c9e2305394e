package lexsite

import (
	"errors"
	"sync"
	"time"

	"github.com/eringen/lexsite/listing"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("lexsite: not found")

// PostCache holds the current post registry loaded from the Store, with TTL.
// Each load produces a new immutable Registry; callers holding an older one
// keep a consistent view.
type PostCache struct {
	mu       sync.RWMutex
	registry *listing.Registry
	fetched  time.Time
	ttl      time.Duration
	store    *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.registry != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.registry = nil
	c.mu.Unlock()
}

// Registry returns the current registry, reloading it if stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) Registry() (*listing.Registry, error) {
	c.mu.RLock()
	if c.valid() {
		r := c.registry
		c.mu.RUnlock()
		return r, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.registry, nil
	}
	posts, err := c.store.ListPosts()
	if err != nil {
		return nil, err
	}
	c.registry = listing.NewRegistry(posts)
	c.fetched = time.Now()
	return c.registry, nil
}

// GetPost returns a single post by slug.
func (c *PostCache) GetPost(slug string) (listing.Post, error) {
	r, err := c.Registry()
	if err != nil {
		return listing.Post{}, err
	}
	p, ok := r.Lookup(slug)
	if !ok {
		return listing.Post{}, ErrNotFound
	}
	return p, nil
}
