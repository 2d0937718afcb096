package domain

import (
	"context"
	"time"
)

// ReportCache stores precomputed dashboard report snapshots keyed by an opaque
// period key. Get returns ErrCacheMiss when no fresh snapshot exists.
type ReportCache interface {
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Invalidate(ctx context.Context, prefix string) error
}

// SignalBus is the pub/sub channel carrying realtime change events (operation
// created/updated/settled) out to dashboard clients.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe returns a channel of raw payloads for the given channel name
	// (glob patterns allowed). The channel closes when ctx is cancelled.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// LockManager hands out distributed locks. Acquire returns ErrLockHeld when
// another holder owns the key; on success the returned function releases the
// lock and is safe to call more than once.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// RateLimiter bounds request rates per key.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
