package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "nutritrack:token:"

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("auth: redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// RedisStore keeps issued tokens as expiring keys, so revoked and expired
// tokens disappear without a cleanup job.
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

func (s *RedisStore) Save(ctx context.Context, rec TokenRecord) error {
	ttl := rec.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, redisKeyPrefix+rec.ID, strconv.FormatUint(uint64(rec.UserID), 10), ttl).Err()
}

func (s *RedisStore) Active(ctx context.Context, tokenID string, userID uint) (bool, error) {
	val, err := s.rdb.Get(ctx, redisKeyPrefix+tokenID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == strconv.FormatUint(uint64(userID), 10), nil
}

func (s *RedisStore) Revoke(ctx context.Context, tokenID string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+tokenID).Err()
}
