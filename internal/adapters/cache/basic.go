package cache

import (
	"runtime"
	"sync"
)

// basicCache keeps entries until they are deleted. Used in tests.
type basicCache[T any] struct {
	mu sync.Mutex
	// nil while the key is claimed
	entries map[string]*T
}

func (c *basicCache[T]) getOrClaim(key string) hitResult[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.entries[key]
	if !ok {
		c.entries[key] = nil
		return hitResult[T]{claimed: true}
	}
	if data == nil {
		return hitResult[T]{}
	}
	return hitResult[T]{data: *data, valid: true}
}

func (c *basicCache[T]) set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &data
}

func (c *basicCache[T]) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

func (c *basicCache[T]) wait() {
	runtime.Gosched()
}

func NewBasicCache[T any]() Cache[T] {
	return &basicCache[T]{
		entries: make(map[string]*T),
	}
}
