// Package cache stores translated chunks so repeated content is only sent to
// a translation engine once.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

// ErrCacheMiss is returned by Get when no translation is stored.
var ErrCacheMiss = errors.New("cache miss")

// Key identifies one translated chunk.
type Key struct {
	Engine  string
	Source  string
	Target  string
	Content string
}

// Entry is the data stored for each translated chunk
type Entry struct {
	Translation string    `json:"translation"`
	Engine      string    `json:"engine"`
	CachedAt    time.Time `json:"cached_at"`
}

// RedisCache implements translation caching using Redis
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to redisURL and checks the connection.
func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisCacheWithClient(client, ttl), nil
}

// NewRedisCacheWithClient creates a cache from an existing Redis client
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisCache{
		client: client,
		prefix: "tr:",
		ttl:    ttl,
	}
}

// key hashes the chunk so arbitrarily large content maps to a short key.
func (c *RedisCache) key(k Key) string {
	h, _ := blake2b.New256(nil)
	for _, part := range []string{k.Engine, k.Source, k.Target} {
		_, _ = h.Write([]byte(part))
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte(k.Content))
	return c.prefix + hex.EncodeToString(h.Sum(nil))
}

// Get returns the stored translation for k.
func (c *RedisCache) Get(ctx context.Context, k Key) (string, error) {
	raw, err := c.client.Get(ctx, c.key(k)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("lookup translation: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return "", fmt.Errorf("unmarshal cache entry: %w", err)
	}
	return entry.Translation, nil
}

// Set stores translation for k until the cache TTL expires.
func (c *RedisCache) Set(ctx context.Context, k Key, translation string) error {
	data, err := json.Marshal(Entry{
		Translation: translation,
		Engine:      k.Engine,
		CachedAt:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := c.client.Set(ctx, c.key(k), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("save translation: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping checks if Redis is reachable
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
