package avram

import (
	"sync"

	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
)

// Cache keeps loaded schemas by the identity of their source document.
// Loading a document is done at most once, concurrent callers with the
// same document wait for the first load and share its result.
type Cache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*cacheEntry
}

type cacheEntry struct {
	once   sync.Once
	schema *Schema
	err    error
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uuid.UUID]*cacheEntry)}
}

// Key returns the identity of a schema document: UUIDv5 of its bytes.
func Key(doc []byte) uuid.UUID {
	return gnuuid.New(string(doc))
}

// Get returns a schema for the document, calling load only if this
// document was not loaded before.
func (c *Cache) Get(
	doc []byte,
	load func([]byte) (*Schema, error),
) (*Schema, error) {
	key := Key(doc)

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.schema, e.err = load(doc)
	})
	return e.schema, e.err
}

// Len returns the number of documents known to the cache.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
