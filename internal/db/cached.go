package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nbu-it/website-backend/internal/cache"
	"github.com/nbu-it/website-backend/internal/model"
)

// KeyValueCache is the slice of the cache the store needs: JSON get/set with
// a TTL plus explicit invalidation. Get reports an absent key as
// cache.ErrCacheMiss.
type KeyValueCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

var _ KeyValueCache = (*cache.Cache)(nil)

// cachedStore is a read-through cache over another Store. List and GetByID
// are served from the cache while fresh; every mutation invalidates the
// affected keys before it returns, so readers in this process never see a
// stale collection after a successful write. Credential lookups are never
// cached.
type cachedStore struct {
	Store
	cache KeyValueCache
	ttl   time.Duration
}

// NewCachedStore wraps inner with a fixed-TTL read cache.
func NewCachedStore(inner Store, c KeyValueCache, ttl time.Duration) Store {
	return &cachedStore{Store: inner, cache: c, ttl: ttl}
}

func listKey(resource string) string { return "list:" + resource }

func itemKey(resource string, id int) string { return fmt.Sprintf("item:%s:%d", resource, id) }

func (s *cachedStore) List(resource string) ([]model.Record, error) {
	ctx := context.Background()

	var cached []model.Record
	err := s.cache.Get(ctx, listKey(resource), &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Str("resource", resource).Msg("cache unavailable, reading through")
	}

	items, err := s.Store.List(resource)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, listKey(resource), items, s.ttl)
	return items, nil
}

func (s *cachedStore) GetByID(resource string, id int) (model.Record, error) {
	ctx := context.Background()

	var cached model.Record
	err := s.cache.Get(ctx, itemKey(resource, id), &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Str("resource", resource).Msg("cache unavailable, reading through")
	}

	item, err := s.Store.GetByID(resource, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, itemKey(resource, id), item, s.ttl)
	return item, nil
}

func (s *cachedStore) Create(resource string, fields model.Record) (model.Record, error) {
	item, err := s.Store.Create(resource, fields)
	if err != nil {
		return nil, err
	}
	s.invalidate(resource, listKey(resource))
	return item, nil
}

func (s *cachedStore) Update(resource string, id int, fields model.Record) (model.Record, error) {
	item, err := s.Store.Update(resource, id, fields)
	if err != nil {
		return nil, err
	}
	s.invalidate(resource, listKey(resource), itemKey(resource, id))
	return item, nil
}

func (s *cachedStore) Delete(resource string, id int) (model.Record, error) {
	item, err := s.Store.Delete(resource, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(resource, listKey(resource), itemKey(resource, id))
	return item, nil
}

// invalidate drops cache keys after a successful mutation. The write itself
// already happened, so a failed invalidation is not surfaced to the caller;
// it is logged because the stale entries stay visible until the TTL expires.
func (s *cachedStore) invalidate(resource string, keys ...string) {
	if err := s.cache.Delete(context.Background(), keys...); err != nil {
		log.Error().Err(err).Str("resource", resource).Strs("keys", keys).Msg("cache invalidation failed, stale entries persist until ttl expiry")
	}
}
