// Package livestate persists the live MatchState blob in Redis between
// scoring requests. The state is always read and written as a whole, so a
// failed write discards the in-memory transition without corrupting the
// stored copy.
package livestate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DhavalSuthar-24/crictally/internal/scoring"
)

// RedisStore holds live match state under "match:state:<id>" with a TTL
// that comfortably outlasts any amateur match.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wires an existing client. A non-positive ttl falls back to
// 24 hours.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func stateKey(matchID uint) string {
	return fmt.Sprintf("match:state:%d", matchID)
}

// Load fetches and unmarshals the live state. A missing key returns
// (nil, nil) so callers can distinguish "no live state" from transport
// failures.
func (s *RedisStore) Load(ctx context.Context, matchID uint) (*scoring.MatchState, error) {
	data, err := s.client.Get(ctx, stateKey(matchID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match state: %w", err)
	}
	var state scoring.MatchState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match state: %w", err)
	}
	return &state, nil
}

// Save marshals and overwrites the whole state blob.
func (s *RedisStore) Save(ctx context.Context, matchID uint, state *scoring.MatchState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal match state: %w", err)
	}
	if err := s.client.Set(ctx, stateKey(matchID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store match state: %w", err)
	}
	return nil
}

// Delete removes the live state once a match completes or is deleted.
func (s *RedisStore) Delete(ctx context.Context, matchID uint) error {
	if err := s.client.Del(ctx, stateKey(matchID)).Err(); err != nil {
		return fmt.Errorf("failed to delete match state: %w", err)
	}
	return nil
}
