package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/hotelbooking/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still holds our token, so an
// expired lock re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisCache struct {
	client          redis.UniversalClient
	availabilityTTL time.Duration
	owner           string
}

func NewRedisCache(cfg config.RedisConfig, availabilityTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		availabilityTTL,
	)
}

func NewRedisCacheWithClient(client redis.UniversalClient, availabilityTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:          client,
		availabilityTTL: availabilityTTL,
		owner:           uuid.NewString(),
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// AvailabilityVersion returns the current cache generation of roomType.
// Entries written under an older generation are never read again.
func (c *RedisCache) AvailabilityVersion(ctx context.Context, roomType string) (int64, error) {
	version, err := c.client.Get(ctx, availabilityVersionKey(roomType)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

func (c *RedisCache) GetAvailability(ctx context.Context, roomType string, version int64, checkIn, checkOut string) (int, bool, error) {
	value, err := c.client.Get(ctx, availabilityKey(roomType, version, checkIn, checkOut)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	available, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("cached availability %q: %w", value, err)
	}
	return available, true, nil
}

func (c *RedisCache) SetAvailability(ctx context.Context, roomType string, version int64, checkIn, checkOut string, available int) error {
	return c.client.Set(ctx, availabilityKey(roomType, version, checkIn, checkOut), available, c.availabilityTTL).Err()
}

// InvalidateRoomType moves roomType to a new cache generation and drops the
// entries of the old ones.
func (c *RedisCache) InvalidateRoomType(ctx context.Context, roomType string) error {
	version, err := c.client.Incr(ctx, availabilityVersionKey(roomType)).Result()
	if err != nil {
		return fmt.Errorf("bump availability version: %w", err)
	}

	iter := c.client.Scan(ctx, 0, availabilityPattern(roomType), 100).Iterator()
	current := availabilityPrefix(roomType, version)
	var keys []string
	for iter.Next(ctx) {
		if key := iter.Val(); !strings.HasPrefix(key, current) {
			keys = append(keys, key)
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// AcquireLedgerLock takes the store-wide write lock for ttl. It returns false
// while another holder has it.
func (c *RedisCache) AcquireLedgerLock(ctx context.Context, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, ledgerLockKey, c.owner, ttl).Result()
}

// ReleaseLedgerLock frees the lock if this cache still owns it.
func (c *RedisCache) ReleaseLedgerLock(ctx context.Context) error {
	return releaseScript.Run(ctx, c.client, []string{ledgerLockKey}, c.owner).Err()
}

const ledgerLockKey = "lock:bookings"

func availabilityVersionKey(roomType string) string {
	return fmt.Sprintf("cache:availability_version:%s", roomType)
}

func availabilityPrefix(roomType string, version int64) string {
	return fmt.Sprintf("cache:availability:%s:v%d:", roomType, version)
}

func availabilityKey(roomType string, version int64, checkIn, checkOut string) string {
	return availabilityPrefix(roomType, version) + checkIn + ":" + checkOut
}

func availabilityPattern(roomType string) string {
	return fmt.Sprintf("cache:availability:%s:v*", roomType)
}
