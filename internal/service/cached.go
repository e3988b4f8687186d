package service

import (
	"context"
	"encoding/json"
	"time"

	"conselhoreal/internal/cache"
)

// readCached decodes key into dst. A store error, a miss or a payload that no
// longer decodes all report false so the caller reloads from the repository.
func readCached(ctx context.Context, store cache.Store, key string, dst any) bool {
	data, err := store.Get(ctx, key)
	if err != nil || data == nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// writeCached stores v under key. Failures only cost a later cache miss.
func writeCached(ctx context.Context, store cache.Store, key string, v any, ttl time.Duration) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = store.Set(ctx, key, payload, ttl)
}
