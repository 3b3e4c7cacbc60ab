// Package cache persists the last successfully loaded document collection so a
// restarted process can serve it without reaching the backend.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"facilitydocs/internal/config"
	"facilitydocs/internal/model"
)

// Defaults for a RedisCache.
const (
	DefaultKey       = "cached_documents"
	DefaultFreshness = 30 * time.Minute
)

// errCacheCorrupt marks an unreadable entry. It never leaves this package.
var errCacheCorrupt = errors.New("cache entry corrupt")

// LocalCache stores one snapshot of the document collection.
// Read and Write never fail from the caller's point of view: a missing or
// unreadable entry reads as nil and a failed write is only logged.
type LocalCache interface {
	Read(ctx context.Context) *model.CacheEntry
	Write(ctx context.Context, coll model.DocumentCollection)
	IsFresh(entry *model.CacheEntry) bool
}

// Options tune a RedisCache.
type Options struct {
	Key       string
	TTL       time.Duration
	Freshness time.Duration
	Now       func() time.Time
	Logger    *slog.Logger
}

// RedisCache keeps the snapshot as a JSON blob under a single Redis key.
type RedisCache struct {
	client    redis.Cmdable
	key       string
	ttl       time.Duration
	freshness time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

var _ LocalCache = (*RedisCache)(nil)

// NewRedisClient opens a client for cfg and verifies it answers PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewRedisCache wraps client. Zero options fall back to the package defaults.
func NewRedisCache(client redis.Cmdable, opt Options) *RedisCache {
	if opt.Key == "" {
		opt.Key = DefaultKey
	}
	if opt.Freshness <= 0 {
		opt.Freshness = DefaultFreshness
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return &RedisCache{
		client:    client,
		key:       opt.Key,
		ttl:       opt.TTL,
		freshness: opt.Freshness,
		now:       opt.Now,
		logger:    opt.Logger,
	}
}

// Read returns the stored entry or nil.
func (c *RedisCache) Read(ctx context.Context) *model.CacheEntry {
	entry, err := c.read(ctx)
	switch {
	case err == nil:
		return entry
	case errors.Is(err, redis.Nil):
		return nil
	case errors.Is(err, errCacheCorrupt):
		c.logger.Warn("ignoring corrupt cache entry", "event", "cache_corrupt", "key", c.key, "error", err.Error())
		return nil
	default:
		c.logger.Warn("cache read failed", "event", "cache_read_failed", "key", c.key, "error", err.Error())
		return nil
	}
}

func (c *RedisCache) read(ctx context.Context) (*model.CacheEntry, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		return nil, err
	}
	var entry model.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", errCacheCorrupt, err)
	}
	if entry.Timestamp <= 0 || entry.Data.General == nil || entry.Data.Facilities == nil {
		return nil, fmt.Errorf("%w: missing data or timestamp", errCacheCorrupt)
	}
	return &entry, nil
}

// Write stores coll stamped with the current time.
func (c *RedisCache) Write(ctx context.Context, coll model.DocumentCollection) {
	entry := model.CacheEntry{Data: coll, Timestamp: c.now().UnixMilli()}
	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.Error("cache encode failed", "event", "cache_write_failed", "key", c.key, "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "event", "cache_write_failed", "key", c.key, "error", err.Error())
		return
	}
	c.logger.Debug("cache written", "event", "cache_written", "key", c.key, "documents", coll.Len())
}

// IsFresh reports whether entry is younger than the freshness threshold.
func (c *RedisCache) IsFresh(entry *model.CacheEntry) bool {
	if entry == nil {
		return false
	}
	age := c.now().Sub(time.UnixMilli(entry.Timestamp))
	return age < c.freshness
}
