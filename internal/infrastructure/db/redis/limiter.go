package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// LoginLimiter throttles failed login attempts per username+IP pair.
// Key format: la:<username>:<ip>, counter with a cooldown TTL set on first
// failure. The limiter fails open: if Redis is unreachable the attempt is
// allowed and the error logged, so a Redis outage cannot lock out all logins.
type LoginLimiter struct {
	client      *redis.Client
	maxFailures int
	cooldown    time.Duration
	log         zerolog.Logger
}

func NewLoginLimiter(client *redis.Client, maxFailures int, cooldown time.Duration, log zerolog.Logger) *LoginLimiter {
	return &LoginLimiter{
		client:      client,
		maxFailures: maxFailures,
		cooldown:    cooldown,
		log:         log,
	}
}

// Allow reports whether another attempt is permitted for the pair.
func (l *LoginLimiter) Allow(ctx context.Context, username, ip string) bool {
	count, err := l.client.Get(ctx, l.key(username, ip)).Int64()
	if err != nil {
		if err != redis.Nil {
			l.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		}
		return true
	}
	return count < int64(l.maxFailures)
}

// RecordFailure counts one failed attempt, starting the cooldown window on
// the first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, username, ip string) {
	key := l.key(username, ip)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.log.Warn().Err(err).Msg("login limiter failed to record attempt")
		return
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.cooldown).Err(); err != nil {
			l.log.Warn().Err(err).Msg("login limiter failed to set cooldown")
		}
	}
}

// Clear resets the pair's counter after a successful login.
func (l *LoginLimiter) Clear(ctx context.Context, username, ip string) {
	if err := l.client.Del(ctx, l.key(username, ip)).Err(); err != nil {
		l.log.Warn().Err(err).Msg("login limiter failed to clear counter")
	}
}

func (l *LoginLimiter) key(username, ip string) string {
	return fmt.Sprintf("la:%s:%s", username, ip)
}
