package sqlb

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	gocache "github.com/patrickmn/go-cache"

	"github.com/fyerfyer/fyer-sqlb/sqlb/internal/cache"
	"github.com/fyerfyer/fyer-sqlb/sqlb/internal/ferr"
)

// Cache 定义缓存接口，Get 未命中时返回 ErrCacheMiss
type Cache interface {
	Get(ctx context.Context, key string, value any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

type cacheConfig struct {
	ttl    time.Duration
	keyGen *cache.KeyGenerator
}

// CacheOption 缓存中间件配置项
type CacheOption func(*cacheConfig)

// WithCacheTTL 设置缓存过期时间
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(cfg *cacheConfig) {
		cfg.ttl = ttl
	}
}

// WithCacheKeyPrefix 设置缓存键前缀
func WithCacheKeyPrefix(prefix string) CacheOption {
	return func(cfg *cacheConfig) {
		cfg.keyGen = cache.NewKeyGenerator(prefix)
	}
}

// CacheMiddleware 缓存 query 的结果行，exec 成功后清空缓存
//
// 行数据以 JSON 保存，命中缓存时数字统一为 float64。
func CacheMiddleware(c Cache, opts ...CacheOption) Middleware {
	cfg := &cacheConfig{
		ttl:    5 * time.Minute,
		keyGen: cache.NewKeyGenerator("sqlb"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
			if c == nil {
				return next.QueryHandler(ctx, qc)
			}

			if qc.QueryType == QueryTypeExec {
				res, err := next.QueryHandler(ctx, qc)
				if err == nil {
					_ = c.Clear(ctx)
				}
				return res, err
			}
			if qc.QueryType != QueryTypeQuery {
				return next.QueryHandler(ctx, qc)
			}

			key := cfg.keyGen.Generate(qc.QueryType, qc.SQL)
			var rows []map[string]any
			if err := c.Get(ctx, key, &rows); err == nil {
				return &QueryResult{Rows: rows}, nil
			}

			res, err := next.QueryHandler(ctx, qc)
			if err != nil || res == nil {
				return res, err
			}
			_ = c.Set(ctx, key, res.Rows, cfg.ttl)
			return res, nil
		})
	}
}

// MemoryCache 基于 go-cache 的进程内缓存
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache cleanupInterval 为过期条目的清理间隔
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

func (m *MemoryCache) Get(_ context.Context, key string, value any) error {
	item, ok := m.store.Get(key)
	if !ok {
		return ferr.ErrCacheMiss
	}
	return json.Unmarshal(item.([]byte), value)
}

func (m *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.store.Set(key, data, ttl)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.store.Delete(key)
	return nil
}

func (m *MemoryCache) Clear(_ context.Context) error {
	m.store.Flush()
	return nil
}

// RedisCache 基于 Redis 的共享缓存，所有键都带有 prefix
type RedisCache struct {
	client redis.Cmdable
	prefix string
}

// DefaultRedisPrefix prefix 为空时使用，Clear 不会扫描整个库
const DefaultRedisPrefix = "sqlb:"

func NewRedisCache(client redis.Cmdable, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisCache) Get(ctx context.Context, key string, value any) error {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ferr.ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, value)
}

func (r *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefix+key, data, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

// Clear 只删除带有 prefix 的键
func (r *RedisCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err = r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
