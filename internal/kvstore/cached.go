package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ Store = (*CachedStore)(nil)

// CachedStore is a read-through, write-through cache in front of another Store.
// Values larger than 1/1024 of the cache size are served from next only.
type CachedStore struct {
	next  Store
	cache *freecache.Cache
	ttl   time.Duration
}

func NewCachedStore(next Store, sizeBytes int, ttl time.Duration) *CachedStore {
	return &CachedStore{
		next:  next,
		cache: freecache.NewCache(sizeBytes),
		ttl:   ttl,
	}
}

func (s *CachedStore) Get(ctx context.Context, key string) (string, error) {
	if val, err := s.cache.Get([]byte(key)); err == nil {
		return string(val), nil
	}

	val, err := s.next.Get(ctx, key)
	if err != nil {
		return "", err
	}

	s.put(key, val)
	return val, nil
}

func (s *CachedStore) Set(ctx context.Context, key, value string) error {
	if err := s.next.Set(ctx, key, value); err != nil {
		s.cache.Del([]byte(key))
		return err
	}
	s.put(key, value)
	return nil
}

func (s *CachedStore) Remove(ctx context.Context, key string) error {
	s.cache.Del([]byte(key))
	return s.next.Remove(ctx, key)
}

func (s *CachedStore) HitRate() float64 {
	return s.cache.HitRate()
}

func (s *CachedStore) put(key, value string) {
	if err := s.cache.Set([]byte(key), []byte(value), int(s.ttl.Seconds())); err != nil {
		// stale copies must not outlive a failed refresh
		s.cache.Del([]byte(key))
		if !errors.Is(err, freecache.ErrLargeEntry) {
			log.Errorf("kvstore cache set [%s]: %s", key, err)
		}
	}
}
