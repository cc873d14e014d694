package cache

import (
	"context"
	"errors"
	"time"

	pkgcache "HealthPull/pkg/cache"
)

// SharedCache adapts a pkg cache Service (Redis or layered) to BytesCache.
// Keys carry the pkg cache prefix, so DeleteByPattern invalidation covers
// them.
type SharedCache struct {
	c pkgcache.Service
}

func NewSharedCache(c pkgcache.Service) *SharedCache {
	return &SharedCache{c: c}
}

func (r *SharedCache) GetBytes(key string) ([]byte, bool, error) {
	var s string
	if err := r.c.Get(context.Background(), key, &s); err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(s), true, nil
}

func (r *SharedCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	return r.c.Set(context.Background(), key, string(value), ttl)
}
