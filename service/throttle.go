package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"libms/log"
)

// LoginThrottle limits login attempts per username.
type LoginThrottle interface {
	Allow(ctx context.Context, username string) bool
}

type redisThrottle struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// Allow counts attempts in Redis with a window-long TTL. It fails open so an
// unreachable Redis never locks out logins.
func (t *redisThrottle) Allow(ctx context.Context, username string) bool {
	key := "login_attempts:" + username
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		log.GetLogger(ctx).WithError(err).Warnf("login throttle unavailable, allowing %q", username)
		return true
	}
	if count == 1 {
		t.client.Expire(ctx, key, t.window)
	}
	return count <= int64(t.limit)
}

func NewRedisThrottle(client *redis.Client, limit int, window time.Duration) LoginThrottle {
	return &redisThrottle{client: client, limit: limit, window: window}
}

type noopThrottle struct{}

func (noopThrottle) Allow(context.Context, string) bool { return true }

// NewNoopThrottle is the throttle used when no Redis address is configured.
func NewNoopThrottle() LoginThrottle { return noopThrottle{} }
