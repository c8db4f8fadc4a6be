package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/patrickmn/go-cache"

	"gymbro-be/internal/repository/specification"
)

// Store keeps every table in its own non-expiring cache. Records carry an
// insertion sequence so reads come back in store order.
type Store struct {
	profiles *cache.Cache
	meals    *cache.Cache
	workouts *cache.Cache

	seq atomic.Int64
	// Guards read-modify-write on profile rows.
	mu sync.Mutex
}

type item struct {
	seq   int64
	value any
}

func NewStore() *Store {
	return &Store{
		profiles: cache.New(cache.NoExpiration, 0),
		meals:    cache.New(cache.NoExpiration, 0),
		workouts: cache.New(cache.NoExpiration, 0),
	}
}

func (s *Store) put(c *cache.Cache, key string, value any) {
	seq := s.seq.Add(1)
	if existing, found := c.Get(key); found {
		seq = existing.(item).seq
	}
	c.Set(key, item{seq: seq, value: value}, cache.NoExpiration)
}

// query returns matching values in insertion order, then applies any Orderer specs.
func query(ctx context.Context, c *cache.Cache, specs ...specification.Specification) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := make([]item, 0, c.ItemCount())
	for _, raw := range c.Items() {
		it := raw.Object.(item)
		if specification.MatchAll(it.value, specs...) {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].seq < items[j].seq })

	values := make([]any, len(items))
	for i, it := range items {
		values[i] = it.value
	}

	for _, spec := range specs {
		if o, ok := spec.(specification.Orderer); ok {
			sort.SliceStable(values, func(i, j int) bool { return o.Less(values[i], values[j]) })
		}
	}
	return values, nil
}
