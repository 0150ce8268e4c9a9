package video

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps video payload segments in redis, keyed by opaque handle. A
// segment is either a sampled frame (JPEG) or the whole container blob when
// no sampler is configured. Payloads expire with the TTL; the registry
// deletes them eagerly on replacement.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(redisClient *redis.Client, ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		redis: redisClient,
		ttl:   ttl,
	}
}

func segmentsKey(handle string) string {
	return fmt.Sprintf("video:%s:segments", handle)
}

func (s *Store) Put(ctx context.Context, handle string, segments [][]byte) error {
	key := segmentsKey(handle)

	members := make([]redis.Z, len(segments))
	for i, seg := range segments {
		members[i] = redis.Z{Score: float64(i), Member: seg}
	}

	pipe := s.redis.Pipeline()
	pipe.ZAdd(ctx, key, members...)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Get returns the payload segments in upload order.
func (s *Store) Get(ctx context.Context, handle string) ([][]byte, error) {
	results, err := s.redis.ZRangeWithScores(ctx, segmentsKey(handle), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	segments := make([][]byte, 0, len(results))
	for _, r := range results {
		data, ok := r.Member.(string)
		if !ok {
			continue
		}
		segments = append(segments, []byte(data))
	}
	return segments, nil
}

func (s *Store) Delete(ctx context.Context, handle string) error {
	return s.redis.Del(ctx, segmentsKey(handle)).Err()
}
