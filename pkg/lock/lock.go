// Package lock serializes work per key (one account at a time).
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when ctx ends before the lock is free.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker hands out exclusive per-key locks. release must be called exactly once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
