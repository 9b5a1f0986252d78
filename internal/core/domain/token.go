package domain

import "time"

// Token lifetimes fixed by product decision; the refresh-token window comes
// from deployment configuration instead.
const (
	ActivationTokenTTL    = 24 * time.Hour
	PasswordResetTokenTTL = 3 * time.Hour
)

// RefreshToken is one device session for a user. The token value doubles as
// primary key and bearer secret; a user holds one row per logged-in device,
// each bound to the ClientDeviceID established at login and never changed.
type RefreshToken struct {
	Token          string
	UserID         string
	ClientDeviceID string
	IPAddress      string
	UserAgent      string
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// ActivationToken is a single-use account-activation token. At most one live
// token per user; issuing a new one replaces any prior one.
type ActivationToken struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// PasswordResetToken is a single-use password-reset token. At most one live
// token per user.
type PasswordResetToken struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry is in the past at the given
// instant. Deleting expired rows is the caller's job, not the record's.
func (t RefreshToken) Expired(now time.Time) bool       { return now.After(t.ExpiresAt) }
func (t ActivationToken) Expired(now time.Time) bool    { return now.After(t.ExpiresAt) }
func (t PasswordResetToken) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }
