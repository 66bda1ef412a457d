package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const throttleKeyPrefix = "login_attempts:"

// LoginThrottle counts failed logins per username in redis and blocks
// further attempts once the limit is reached within the window. Redis
// failures degrade open: an unreachable counter never locks anyone out.
type LoginThrottle struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLoginThrottle constructs a LoginThrottle.
func NewLoginThrottle(client *redis.Client, limit int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, limit: limit, window: window}
}

// Blocked reports whether the username has exhausted its attempts.
func (t *LoginThrottle) Blocked(ctx context.Context, username string) bool {
	count, err := t.client.Get(ctx, throttleKeyPrefix+username).Int()
	if err != nil {
		return false
	}
	return count >= t.limit
}

// RecordFailure increments the failed-attempt counter and refreshes the
// window.
func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) {
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, throttleKeyPrefix+username)
	pipe.Expire(ctx, throttleKeyPrefix+username, t.window)
	_, _ = pipe.Exec(ctx)
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, username string) {
	_ = t.client.Del(ctx, throttleKeyPrefix+username).Err()
}
