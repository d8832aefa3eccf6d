package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/oggyb/pinmark/internal/config"
	"github.com/redis/go-redis/v9"
)

// RankingKey is the sorted set scoring images by cumulative views.
const RankingKey = "image_ranking"

// RedisCache exposes the handful of Redis primitives the view counters need.
// Errors are returned as-is; degradation policy lives in the counter package.
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
		// counters are single-attempt
		MaxRetries: -1,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForViews generates the Redis key holding an image's view count.
func (c *RedisCache) KeyForViews(imageID uint64) string {
	return fmt.Sprintf("image:%d:views", imageID)
}

// IncrView bumps the view counter and the ranking score in one round trip
// and returns the new count.
func (c *RedisCache) IncrView(ctx context.Context, imageID uint64) (int64, error) {
	var incr *redis.IntCmd
	_, err := c.Client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, c.KeyForViews(imageID))
		pipe.ZIncrBy(ctx, RankingKey, 1, strconv.FormatUint(imageID, 10))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// GetViews returns the stored count; a missing key is 0.
func (c *RedisCache) GetViews(ctx context.Context, imageID uint64) (int64, error) {
	val, err := c.Client.Get(ctx, c.KeyForViews(imageID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return val, err
}

// GetViewsBulk reads many counters with a single MGET. Missing or unparsable
// keys are left out of the result.
func (c *RedisCache) GetViewsBulk(ctx context.Context, imageIDs []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(imageIDs))
	if len(imageIDs) == 0 {
		return out, nil
	}
	keys := make([]string, len(imageIDs))
	for i, id := range imageIDs {
		keys[i] = c.KeyForViews(id)
	}
	vals, err := c.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			out[imageIDs[i]] = n
		}
	}
	return out, nil
}

// TopRanked returns up to n image ids by descending score.
func (c *RedisCache) TopRanked(ctx context.Context, n int) ([]uint64, error) {
	if n <= 0 {
		return nil, nil
	}
	members, err := c.Client.ZRevRangeWithScores(ctx, RankingKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		s, ok := m.Member.(string)
		if !ok {
			continue
		}
		if id, err := strconv.ParseUint(s, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
