package trip

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisTripKeyPrefix  = "trips:"
	redisIndexKey       = "trips:by_generated_at"
	redisDedupKeyPrefix = "trips:dedup:"
)

// RedisStore keeps each trip as a JSON string and orders them with a sorted set scored by generatedAt.
type RedisStore struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisStore(rdb *redis.Client, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{rdb: rdb, logger: logger}
}

func tripKey(id string) string { return redisTripKeyPrefix + id }

func dedupKey(k DedupKey) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s\x00%s\x00%d\x00%s\x00%s",
		k.Destination, k.FromCity, k.NumberOfDays, strconv.FormatFloat(k.Budget, 'f', -1, 64), k.FamilyType)))
	return redisDedupKeyPrefix + hex.EncodeToString(sum[:])
}

func (s *RedisStore) Create(ctx context.Context, t *Trip) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode trip: %w", err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tripKey(t.ID), payload, 0)
		pipe.ZAdd(ctx, redisIndexKey, redis.Z{Score: float64(t.GeneratedAt.UnixMilli()), Member: t.ID})
		pipe.SetNX(ctx, dedupKey(t.DedupKey()), t.ID, 0)
		return nil
	})
	return err
}

func (s *RedisStore) List(ctx context.Context) ([]Trip, error) {
	ids, err := s.rdb.ZRevRange(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	trips := []Trip{}
	if len(ids) == 0 {
		return trips, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = tripKey(id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry whose trip was deleted concurrently
			continue
		}
		var t Trip
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("decode trip: %w", err)
		}
		trips = append(trips, t)
	}
	sortNewestFirst(trips)
	return trips, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Trip, error) {
	raw, err := s.rdb.Get(ctx, tripKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var t Trip
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode trip %s: %w", id, err)
	}
	return &t, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	var deleted *redis.IntCmd
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, tripKey(id))
		pipe.ZRem(ctx, redisIndexKey, id)
		return nil
	})
	if err != nil {
		return err
	}
	if deleted.Val() == 0 {
		return ErrNotFound
	}
	// only drop the dedup pointer if it still refers to this trip
	dk := dedupKey(t.DedupKey())
	if owner, err := s.rdb.Get(ctx, dk).Result(); err == nil && owner == id {
		if err := s.rdb.Del(ctx, dk).Err(); err != nil {
			s.logger.Warn("stale dedup pointer left behind",
				zap.String("key", dk),
				zap.String("trip_id", id),
				zap.Error(err))
		}
	}
	return nil
}

func (s *RedisStore) FindDuplicate(ctx context.Context, key DedupKey) (*Trip, error) {
	id, err := s.rdb.Get(ctx, dedupKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
