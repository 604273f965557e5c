package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// FeedTTL is short: the feed must pick up new posts quickly, the cache only
// absorbs the client's aggressive first-page polling.
const FeedTTL = 15 * time.Second

const feedVersionKey = "feed:version"

// FeedKey builds the cache key for one feed page. Keys embed a version
// counter so InvalidateFeed is a single INCR instead of a SCAN over pages.
func FeedKey(ctx context.Context, offset, limit int) string {
	version := int64(0)
	if client != nil {
		if v, err := client.Get(ctx, feedVersionKey).Int64(); err == nil {
			version = v
		}
	}
	return fmt.Sprintf("feed:v%d:%d:%d", version, offset, limit)
}

// Aside implements the cache-aside pattern: on miss, load() populates dest
// and the JSON-encoded result is stored under key. Cache failures are
// invisible to callers; load() is the source of truth.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func() error) error {
	if client != nil {
		if raw, err := client.Get(ctx, key).Bytes(); err == nil {
			if err := json.Unmarshal(raw, dest); err == nil {
				return nil
			}
		}
	}

	if err := load(); err != nil {
		return err
	}

	if client != nil {
		if raw, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}
	return nil
}

// InvalidateFeed drops every cached feed page by bumping the version counter.
// If the INCR fails, already-cached pages stay live until FeedTTL expires;
// that staleness window is bounded and a cached page is always a complete
// snapshot, never a truncated one.
func InvalidateFeed(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, feedVersionKey)
	}
}
