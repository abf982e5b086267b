package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/blackcheck/black-check-api/internal/adapter"
	"github.com/blackcheck/black-check-api/internal/logger"
)

// Entry is a cached resolution. A nil Metadata is a negative entry.
// HoldingsScanned marks a negative entry that also covered the aggregator holdings.
type Entry struct {
	Metadata        *CheckMetadata `json:"metadata"`
	HoldingsScanned bool           `json:"holdings_scanned,omitempty"`
}

// Found reports whether the entry is a positive resolution
func (e Entry) Found() bool {
	return e.Metadata != nil
}

// Cache stores resolutions keyed by token id
type Cache interface {
	Get(ctx context.Context, tokenID int64) (Entry, bool)
	Set(ctx context.Context, tokenID int64, entry Entry, ttl time.Duration)
}

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

// MemoryCache is a process-local TTL cache
type MemoryCache struct {
	mu    sync.Mutex
	clock adapter.Clock
	items map[int64]memoryItem
}

func NewMemoryCache(clock adapter.Clock) *MemoryCache {
	return &MemoryCache{
		clock: clock,
		items: make(map[int64]memoryItem),
	}
}

func (c *MemoryCache) Get(_ context.Context, tokenID int64) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[tokenID]
	if !ok {
		return Entry{}, false
	}
	if !c.clock.Now().Before(item.expiresAt) {
		delete(c.items, tokenID)
		return Entry{}, false
	}
	return item.entry, true
}

func (c *MemoryCache) Set(_ context.Context, tokenID int64, entry Entry, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.items[tokenID] = memoryItem{entry: entry, expiresAt: now.Add(ttl)}

	// sweep expired entries so ids that are never read again do not accumulate
	for id, item := range c.items {
		if !now.Before(item.expiresAt) {
			delete(c.items, id)
		}
	}
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// RedisCache shares resolutions between API instances
type RedisCache struct {
	client    adapter.RedisClient
	keyPrefix string
}

func NewRedisCache(client adapter.RedisClient, keyPrefix string) *RedisCache {
	return &RedisCache{client: client, keyPrefix: keyPrefix}
}

func (c *RedisCache) key(tokenID int64) string {
	return fmt.Sprintf("%s:%d", c.keyPrefix, tokenID)
}

func (c *RedisCache) Get(ctx context.Context, tokenID int64) (Entry, bool) {
	data, err := c.client.Get(ctx, c.key(tokenID))
	if err != nil {
		if !errors.Is(err, adapter.ErrRedisNil) {
			logger.WarnCtx(ctx, "Metadata cache read failed", zap.Int64("tokenID", tokenID), zap.Error(err))
		}
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.WarnCtx(ctx, "Corrupt metadata cache entry", zap.Int64("tokenID", tokenID), zap.Error(err))
		return Entry{}, false
	}
	return entry, true
}

func (c *RedisCache) Set(ctx context.Context, tokenID int64, entry Entry, ttl time.Duration) {
	data, err := json.Marshal(entry)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to encode metadata cache entry", zap.Int64("tokenID", tokenID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(tokenID), data, ttl); err != nil {
		logger.WarnCtx(ctx, "Metadata cache write failed", zap.Int64("tokenID", tokenID), zap.Error(err))
	}
}
