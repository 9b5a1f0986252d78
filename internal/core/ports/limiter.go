package ports

import "context"

// LoginLimiter throttles repeated failed logins per username+IP pair.
// Implementations fail open: an unavailable backend must not lock out logins.
type LoginLimiter interface {
	// Allow reports whether another attempt is permitted right now.
	Allow(ctx context.Context, username, ip string) bool
	// RecordFailure counts one failed attempt against the pair.
	RecordFailure(ctx context.Context, username, ip string)
	// Clear resets the pair's counter after a successful login.
	Clear(ctx context.Context, username, ip string)
}
