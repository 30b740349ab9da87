package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheKeyPrefix namespaces engine entries in a shared Redis.
const cacheKeyPrefix = "casegraph:query:"

// CacheConfig holds the settings for the optional Redis query cache.
type CacheConfig struct {
	// Addr is the Redis host:port. Empty disables caching entirely.
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`

	// TTL bounds how long cached rows are served. Zero means 5 minutes.
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// Cache is a read-through Querier decorator backed by Redis.
//
// The graph is read-mostly (gazetteer lookups and overview queries repeat
// across conversations), so cached rows are served until the TTL expires.
// Every cache failure falls through to the inner Querier; caching can
// degrade but never break a query.
type Cache struct {
	inner  Querier
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewCache wraps inner with a Redis read-through cache.
func NewCache(inner Querier, client *redis.Client, ttl time.Duration, log *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &Cache{inner: inner, client: client, ttl: ttl, log: log}
}

// Query returns cached rows when present, otherwise queries the inner
// store and caches the result.
func (c *Cache) Query(ctx context.Context, query string, params map[string]any) ([]Row, error) {
	key := cacheKey(query, params)

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var rows []Row
		if jerr := json.Unmarshal(data, &rows); jerr == nil {
			return rows, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		c.log.Warn("cache: discarding undecodable entry", "key", key)
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.log.Warn("cache: get failed", "key", key, "error", err)
	}

	rows, err := c.inner.Query(ctx, query, params)
	if err != nil {
		return nil, err
	}

	if data, jerr := json.Marshal(rows); jerr == nil {
		if serr := c.client.Set(ctx, key, data, c.ttl).Err(); serr != nil {
			c.log.Warn("cache: set failed", "key", key, "error", serr)
		}
	}
	return rows, nil
}

// cacheKey hashes the query text and canonicalized parameters.
func cacheKey(query string, params map[string]any) string {
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte{0})
	h.Write([]byte(canonicalParams(params)))
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
