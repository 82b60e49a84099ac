package trademark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	shardedcache "github.com/simp-lee/cache"

	"github.com/simp-lee/tmsearch/internal/config"
	"github.com/simp-lee/tmsearch/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when key is absent or stale.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores search responses for the staleness window. Cached responses
// are shared between callers and must not be modified.
type Cache interface {
	Get(ctx context.Context, key string) (*domain.SearchResponse, error)
	Set(ctx context.Context, key string, resp *domain.SearchResponse, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NewCache builds the backend selected by cfg.Driver.
func NewCache(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryCache(cfg.MaxEntries), nil
	case "redis":
		c, err := NewRedisCache(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Driver)
	}
}

// memoryShards keeps MaxSize equal to the entry bound, since the
// sharded cache applies MaxSize per shard.
const memoryShards = 1

// memoryCleanupInterval is how often stale entries are swept.
const memoryCleanupInterval = time.Minute

// MemoryCache is a process-local Cache holding at most maxEntries responses.
// When full it drops the entry that was stored first.
type MemoryCache struct {
	store      shardedcache.CacheInterface
	maxEntries int
	closeOnce  sync.Once
}

// NewMemoryCache returns an empty MemoryCache. maxEntries <= 0 means
// config.DefaultCacheMaxEntries.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = config.DefaultCacheMaxEntries
	}
	return &MemoryCache{
		store: shardedcache.NewCache(shardedcache.Options{
			MaxSize:         maxEntries,
			ShardCount:      memoryShards,
			CleanupInterval: memoryCleanupInterval,
		}),
		maxEntries: maxEntries,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*domain.SearchResponse, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	resp, ok := v.(*domain.SearchResponse)
	if !ok {
		c.store.Delete(key)
		return nil, ErrCacheMiss
	}
	return resp, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, resp *domain.SearchResponse, ttl time.Duration) error {
	if resp == nil {
		return errors.New("cannot cache a nil response")
	}
	if ttl <= 0 {
		return nil
	}
	c.store.SetWithExpiration(key, resp, ttl)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

// Close stops the background sweep and drops every entry. Later calls are
// no-ops.
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() {
		c.store.Clear()
		c.store.Close()
	})
	return nil
}

// Len reports the number of stored entries, stale ones not yet swept
// included.
func (c *MemoryCache) Len() int {
	return c.store.Count()
}

// RedisCache shares the staleness window between instances. Entries expire
// through the Redis TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection with PING.
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = config.DefaultRedisPrefix
	}
	return &RedisCache{client: client, prefix: prefix}, nil
}

func (c *RedisCache) key(key string) string {
	return c.prefix + ":search:" + key
}

func (c *RedisCache) Get(ctx context.Context, key string) (*domain.SearchResponse, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var resp domain.SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	if resp.Trademarks == nil {
		resp.Trademarks = []domain.TrademarkResult{}
	}
	return &resp, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, resp *domain.SearchResponse, ttl time.Duration) error {
	if resp == nil {
		return errors.New("cannot cache a nil response")
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
