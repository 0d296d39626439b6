package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/lead-miners/scout/internal/retry"
	"github.com/lead-miners/scout/pkg/models"
)

// RedisStore persists listings in Redis: one JSON string per listing plus a
// per-run set of document keys.
type RedisStore struct {
	client *redis.Client
	retry  retry.Config
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Debug().Str("addr", addr).Msg("Redis store connected")
	return &RedisStore{
		client: client,
		retry:  retry.DefaultConfig(),
	}, nil
}

// UpsertListings writes all listings in one pipeline, retried on transient
// failures.
func (s *RedisStore) UpsertListings(ctx context.Context, runID string, listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	return retry.Do(ctx, s.retry, func() error {
		pipe := s.client.Pipeline()
		for _, l := range listings {
			doc, err := json.Marshal(l)
			if err != nil {
				return fmt.Errorf("encoding listing %q: %w", l.Name, err)
			}
			key := DocumentKey(l)
			pipe.Set(ctx, key, doc, 0)
			pipe.SAdd(ctx, runKey(runID), key)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("redis upsert failed: %w", err)
		}
		return nil
	})
}

// RunListingCount returns the size of a run's document set
func (s *RedisStore) RunListingCount(ctx context.Context, runID string) (int64, error) {
	return s.client.SCard(ctx, runKey(runID)).Result()
}

// Close releases the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func runKey(runID string) string {
	return "run:" + runID + ":listings"
}
