package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmaffei/arbdesk/internal/domain"
)

// ReportCache implements domain.ReportCache using plain string keys with a
// TTL. Snapshots are stored pre-serialized so a cache hit costs a single GET
// with no marshalling work on the hot path.
type ReportCache struct {
	rdb *redis.Client
}

// NewReportCache creates a ReportCache backed by the given Client.
func NewReportCache(c *Client) *ReportCache {
	return &ReportCache{rdb: c.Underlying()}
}

func reportKey(key string) string {
	return "report:" + key
}

// Set stores a report snapshot under the given key for ttl.
func (rc *ReportCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := rc.rdb.Set(ctx, reportKey(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set report %s: %w", key, err)
	}
	return nil
}

// Get retrieves a report snapshot. It returns domain.ErrCacheMiss when no
// fresh snapshot exists.
func (rc *ReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := rc.rdb.Get(ctx, reportKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis: get report %s: %w", key, err)
	}
	return data, nil
}

// Invalidate deletes every snapshot whose key starts with prefix. It scans
// rather than using KEYS so a large keyspace does not block the server.
func (rc *ReportCache) Invalidate(ctx context.Context, prefix string) error {
	var cursor uint64
	pattern := reportKey(prefix) + "*"
	for {
		keys, next, err := rc.rdb.Scan(ctx, cursor, pattern, 256).Result()
		if err != nil {
			return fmt.Errorf("redis: scan reports %s: %w", prefix, err)
		}
		if len(keys) > 0 {
			if err := rc.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis: delete reports %s: %w", prefix, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Compile-time interface check.
var _ domain.ReportCache = (*ReportCache)(nil)
