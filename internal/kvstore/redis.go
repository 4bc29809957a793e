package kvstore

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore keeps plain values as string keys and timestamp trails as
// sorted sets scored by fractional unix seconds.
type redisStore struct {
	rdb *redis.Client
}

func newRedisStore(rdb *redis.Client) *redisStore {
	return &redisStore{rdb: rdb}
}

func (s *redisStore) get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *redisStore) set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) recordStamp(ctx context.Context, key string, at time.Time, ttl time.Duration) error {
	score := unixSeconds(at)
	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  score,
		Member: strconv.FormatFloat(score, 'f', 9, 64),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisStore) stampsSince(ctx context.Context, key string, since time.Time) ([]time.Time, error) {
	cutoff := strconv.FormatFloat(unixSeconds(since), 'f', 9, 64)
	pipe := s.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", "("+cutoff)
	rangeCmd := pipe.ZRangeWithScores(ctx, key, 0, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	members, err := rangeCmd.Result()
	if err != nil {
		return nil, err
	}
	stamps := make([]time.Time, 0, len(members))
	for _, m := range members {
		sec, frac := int64(m.Score), m.Score-float64(int64(m.Score))
		stamps = append(stamps, time.Unix(sec, int64(frac*1e9)))
	}
	return stamps, nil
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
