package cache

import (
	"github.com/google/uuid"

	"entrypass-engine/internal/domain/traveler"
)

// Table is the typed view a repository holds over one of the cache's fixed
// tables. Values round-trip without assertions at the call sites.
type Table[V any] struct {
	cache *Cache
	dt    traveler.DataType
}

func NewTable[V any](c *Cache, dt traveler.DataType) Table[V] {
	if !dt.IsValid() {
		panic("cache: unknown data type " + dt.String())
	}
	return Table[V]{cache: c, dt: dt}
}

func (t Table[V]) Get(key string) (V, bool) {
	var zero V
	v, ok := t.cache.get(t.dt, key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(V)
	if !ok {
		return zero, false
	}
	return typed, true
}

func (t Table[V]) Set(key string, userID uuid.UUID, value V) {
	t.cache.set(t.dt, key, userID, value)
}

func (t Table[V]) Invalidate(key string) {
	t.cache.invalidate(t.dt, key)
}
