package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// kv is the part of *redis.Client the cache needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedRepository is a read-through cache in front of GetByID. Doctors are
// not updated after creation, so entries are only ever expired by TTL.
type CachedRepository struct {
	Repository
	client kv
	ttl    time.Duration
}

// NewCachedRepository wraps repo. A nil client returns repo unchanged.
func NewCachedRepository(repo Repository, client *redis.Client, ttl time.Duration) Repository {
	if client == nil {
		return repo
	}
	return newCachedRepository(repo, client, ttl)
}

func newCachedRepository(repo Repository, client kv, ttl time.Duration) *CachedRepository {
	return &CachedRepository{Repository: repo, client: client, ttl: ttl}
}

func cacheKey(id uuid.UUID) string {
	return "doctor:" + id.String()
}

func (r *CachedRepository) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	key := cacheKey(id)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var d Doctor
		if err := json.Unmarshal(raw, &d); err == nil {
			return &d, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cached doctor")
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Str("key", key).Msg("doctor cache read failed")
	}

	d, err := r.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(d); err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("doctor cache write failed")
		}
	}
	return d, nil
}
