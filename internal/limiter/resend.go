// Package limiter throttles verification email resends per address.
package limiter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "resend-verify:"

// Resend is a fixed-window counter kept in Redis so the limit holds across instances.
type Resend struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewResend connects to redisURL and checks it is reachable.
func NewResend(ctx context.Context, redisURL string, limit int, window time.Duration) (*Resend, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewResendWithClient(client, limit, window), nil
}

func NewResendWithClient(client *redis.Client, limit int, window time.Duration) *Resend {
	return &Resend{client: client, limit: limit, window: window}
}

// Allow counts one attempt for email and reports whether it is within the limit.
// The window is opened and counted in one transaction, so a counter never
// exists without its expiry.
func (l *Resend) Allow(ctx context.Context, email string) (bool, error) {
	key := keyPrefix + strings.ToLower(email)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, l.window)
		incr = pipe.Incr(ctx, key)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to count resend attempt: %w", err)
	}
	return incr.Val() <= int64(l.limit), nil
}

func (l *Resend) Close() error {
	return l.client.Close()
}

// Nop never throttles. It is used when no Redis is configured.
type Nop struct{}

func (Nop) Allow(context.Context, string) (bool, error) { return true, nil }
