// Package cache provides a Redis-backed store for computed evaluation
// snapshots. Payloads are CBOR-encoded; the score and the decision it
// produced are always cached together and invalidated together on any
// aggregate mutation.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kettlevend/sitescout/internal/site"
)

// ErrMiss is returned when no snapshot is cached for a location.
var ErrMiss = errors.New("evaluation not in cache")

// DefaultTTL bounds how stale a cached snapshot may get even without
// an explicit invalidation.
const DefaultTTL = 15 * time.Minute

// keyPrefix namespaces evaluation keys in a shared Redis.
const keyPrefix = "sitescout:eval:"

// EncodeEvaluation serializes a snapshot to CBOR.
func EncodeEvaluation(eval *site.Evaluation) ([]byte, error) {
	data, err := cbor.Marshal(eval)
	if err != nil {
		return nil, fmt.Errorf("failed to encode evaluation: %w", err)
	}
	return data, nil
}

// DecodeEvaluation deserializes a CBOR snapshot.
func DecodeEvaluation(data []byte) (*site.Evaluation, error) {
	var eval site.Evaluation
	if err := cbor.Unmarshal(data, &eval); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation: %w", err)
	}
	return &eval, nil
}

// ScoreCache caches evaluation snapshots keyed by location id.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScoreCache creates a ScoreCache. A non-positive ttl falls back to
// DefaultTTL.
func NewScoreCache(client *redis.Client, ttl time.Duration) *ScoreCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ScoreCache{client: client, ttl: ttl}
}

func evalKey(locationID string) string {
	return keyPrefix + locationID
}

// Get returns the cached snapshot for a location, ErrMiss when absent.
func (c *ScoreCache) Get(ctx context.Context, locationID string) (*site.Evaluation, error) {
	data, err := c.client.Get(ctx, evalKey(locationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached evaluation: %w", err)
	}
	return DecodeEvaluation(data)
}

// Set stores a snapshot with the configured TTL.
func (c *ScoreCache) Set(ctx context.Context, eval *site.Evaluation) error {
	data, err := EncodeEvaluation(eval)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, evalKey(eval.LocationID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache evaluation: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot after an aggregate mutation.
// Deleting an absent key is not an error.
func (c *ScoreCache) Invalidate(ctx context.Context, locationID string) error {
	if err := c.client.Del(ctx, evalKey(locationID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate evaluation: %w", err)
	}
	return nil
}
