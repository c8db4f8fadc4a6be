package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// LocalLocker is an in-process Locker. Each key maps to a one-slot channel held
// in a go-cache registry; idle keys expire so the registry does not grow forever.
type LocalLocker struct {
	mu       sync.Mutex
	registry *cache.Cache
}

const localIdleTTL = time.Hour

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{registry: cache.New(localIdleTTL, 10*time.Minute)}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, found := l.registry.Get(key); found {
		ch := v.(chan struct{})
		l.registry.Set(key, ch, cache.DefaultExpiration)
		return ch
	}
	ch := make(chan struct{}, 1)
	l.registry.Set(key, ch, cache.DefaultExpiration)
	return ch
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(), error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() { <-ch })
		}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, ctx.Err())
	}
}
