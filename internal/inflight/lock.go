// Package inflight guards against concurrent analysis of the same
// message across processes. The lock is a Redis SETNX with a TTL
// slightly above the analysis timeout, so a crashed worker's lock
// expires on its own.
package inflight

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard acquires and releases per-message analysis locks.
type Guard interface {
	// TryAcquire returns false when another holder owns the lock.
	TryAcquire(ctx context.Context, messageID int64) (bool, error)
	Release(ctx context.Context, messageID int64) error
	Close() error
}

type redisGuard struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisGuard(client *redis.Client, ttl time.Duration, logger *slog.Logger) Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisGuard{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func lockKey(messageID int64) string {
	return fmt.Sprintf("colloquy:analysis:inflight:%d", messageID)
}

func (g *redisGuard) TryAcquire(ctx context.Context, messageID int64) (bool, error) {
	ok, err := g.client.SetNX(ctx, lockKey(messageID), 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquiring analysis lock: %w", err)
	}
	if !ok {
		g.logger.DebugContext(ctx, "analysis lock held elsewhere", "message_id", messageID)
	}
	return ok, nil
}

func (g *redisGuard) Release(ctx context.Context, messageID int64) error {
	if err := g.client.Del(ctx, lockKey(messageID)).Err(); err != nil {
		return fmt.Errorf("releasing analysis lock: %w", err)
	}
	return nil
}

func (g *redisGuard) Close() error {
	return g.client.Close()
}
