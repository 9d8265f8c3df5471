package store

import (
	"github.com/patrickmn/go-cache"

	"github.com/zjrosen/mimic/internal/log"
)

// Cached fronts a Backend with an in-memory cache and write-behind. Set
// updates the cache immediately and hands the durable write to a Writer, so
// a following Get observes the new value even before it reaches disk.
type Cached struct {
	backend Backend
	cache   *cache.Cache
	writer  *Writer
}

var _ Store = (*Cached)(nil)

// NewCached wraps backend. Writes are queued on writer.
func NewCached(backend Backend, writer *Writer) *Cached {
	return &Cached{
		backend: backend,
		cache:   cache.New(cache.NoExpiration, 0),
		writer:  writer,
	}
}

// Get implements Store. Cache misses read through to the backend.
func (c *Cached) Get(key string) (string, bool) {
	if v, ok := c.cache.Get(key); ok {
		return v.(string), true
	}

	v, found, err := c.backend.Load(key)
	if err != nil {
		log.ErrorErr(log.CatStore, "Failed to load key", err, "key", key)
		return "", false
	}
	if !found {
		return "", false
	}
	c.cache.Set(key, v, cache.NoExpiration)
	return v, true
}

// Set implements Store.
func (c *Cached) Set(key, value string) {
	c.cache.Set(key, value, cache.NoExpiration)
	c.writer.Submit(func() error {
		return c.backend.Save(key, value)
	})
}
