// internal/store/redis.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"policy-advisor/internal/analysis"
	"policy-advisor/internal/common/database"
)

const (
	redisRecordKeyPrefix = "policy:analysis:"
	redisIndexKey        = "policy:analyses:recent"
)

// RedisStore persists analyses as JSON values plus an insertion-ordered
// index list. LPUSH keeps the index newest-first, which also gives the
// reverse-insertion tie-break on equal timestamps for free.
type RedisStore struct {
	client *database.RedisClient
}

// NewRedisStore wraps an existing redis client.
func NewRedisStore(client *database.RedisClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context, input *analysis.PolicyInput, assessment *analysis.Assessment) (*StoredAnalysis, error) {
	record := newRecord(input, assessment)
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now().UTC()

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode policy analysis: %w", err)
	}

	if err := s.client.Client.Set(ctx, redisRecordKeyPrefix+record.ID, payload, 0).Err(); err != nil {
		return nil, fmt.Errorf("failed to store policy analysis: %w", err)
	}
	if err := s.client.Client.LPush(ctx, redisIndexKey, record.ID).Err(); err != nil {
		return nil, fmt.Errorf("failed to index policy analysis: %w", err)
	}
	return record, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*StoredAnalysis, error) {
	payload, err := s.client.Client.Get(ctx, redisRecordKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read policy analysis: %w", err)
	}

	var record StoredAnalysis
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("failed to decode policy analysis: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) ListAll(ctx context.Context) ([]*StoredAnalysis, error) {
	ids, err := s.client.Client.LRange(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list policy analyses: %w", err)
	}

	out := make([]*StoredAnalysis, 0, len(ids))
	for _, id := range ids {
		record, err := s.Get(ctx, id)
		if err == ErrNotFound {
			// Index entry without a record; skip rather than fail the listing.
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}
