package container

import (
	"context"
	"errors"
	"io"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache stores reused instances by slot. Concurrent first requests for the
// same slot share one construction; failed constructions are not stored.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]any
	order  []string
	flight singleflight.Group
}

func NewCache() *Cache {
	return &Cache{
		items: make(map[string]any),
	}
}

func (c *Cache) Get(slot string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	instance, ok := c.items[slot]
	return instance, ok
}

// GetOrCreate returns the instance stored in slot, creating it when absent.
// Callers that would wait on a construction which itself waits on them get
// a *CycleError instead of blocking.
func (c *Cache) GetOrCreate(ctx context.Context, slot string, create func() (any, error)) (any, error) {
	if instance, ok := c.Get(slot); ok {
		return instance, nil
	}

	release, err := waits.acquire(ctx, flight{cache: c, slot: slot})
	if err != nil {
		return nil, err
	}
	defer release()

	instance, err, _ := c.flight.Do(
		slot, func() (any, error) {
			if instance, ok := c.Get(slot); ok {
				return instance, nil
			}

			instance, err := create()
			if err != nil {
				return nil, err
			}

			c.mu.Lock()
			c.items[slot] = instance
			c.order = append(c.order, slot)
			c.mu.Unlock()
			return instance, nil
		},
	)
	return instance, err
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Close empties the cache and closes every stored io.Closer in reverse
// creation order.
func (c *Cache) Close() error {
	c.mu.Lock()
	items, order := c.items, c.order
	c.items = make(map[string]any)
	c.order = nil
	c.mu.Unlock()

	var errs []error
	for i := len(order) - 1; i >= 0; i-- {
		closer, ok := items[order[i]].(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
