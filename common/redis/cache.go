package redis

import (
	"context"
	"time"
)

// CacheAdapter adapts Client to the common cache.Cache interface so the
// rendered-markup cache can run against redis instead of process memory.
type CacheAdapter struct {
	client *Client
}

// NewCacheAdapter wraps a Client as a cache backend
func NewCacheAdapter(client *Client) *CacheAdapter {
	return &CacheAdapter{client: client}
}

func (a *CacheAdapter) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return a.client.Get(ctx, key)
}

func (a *CacheAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return a.client.SetWithExpiry(ctx, key, value, ttl)
}

func (a *CacheAdapter) Delete(ctx context.Context, key string) error {
	return a.client.Delete(ctx, key)
}

func (a *CacheAdapter) Close() error {
	return a.client.Close()
}
