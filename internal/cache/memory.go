package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process Store used when no redis address is configured.
type Memory struct {
	items *gocache.Cache
}

var _ Store = (*Memory)(nil)

// NewMemory returns a Memory store purging expired keys every cleanupInterval.
func NewMemory(cleanupInterval time.Duration) *Memory {
	return &Memory{items: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := m.items.Get(key)
	if !ok {
		return nil, nil
	}
	b, _ := value.([]byte)
	return append([]byte(nil), b...), nil
}

// Set stores a copy of value. A non-positive ttl never expires.
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.items.Delete(key)
	return nil
}
