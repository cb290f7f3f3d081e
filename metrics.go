package lattice

import (
	"time"
)

// ResolveHook observes every resolution, nested ones included. key is the
// requested contract, suffixed with "#name" for named lookups.
type ResolveHook func(key string, duration time.Duration, err error)

func (c *Container) callResolveHooks(key string, duration time.Duration, err error) {
	for _, hook := range c.config.onResolve {
		hook(key, duration, err)
	}
}
