package cache

import (
	"bytes"
	"context"
	"time"
)

// MemoryViewCache keeps serialized views in a Store. It never returns errors.
type MemoryViewCache struct {
	store *Store
}

func NewMemoryViewCache() *MemoryViewCache {
	return &MemoryViewCache{store: NewStore(0)}
}

func (c *MemoryViewCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok := c.store.Get(ctx, key)
	if !ok {
		return nil, false, nil
	}
	raw, ok := value.([]byte)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(raw), true, nil
}

func (c *MemoryViewCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.store.SetWithTTL(ctx, key, bytes.Clone(value), ttl)
	return nil
}

func (c *MemoryViewCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.store.DeletePrefix(ctx, prefix)
	return nil
}
