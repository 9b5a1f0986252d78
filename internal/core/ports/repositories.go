package ports

import (
	"context"

	"github.com/chatterbox/auth-service/internal/core/domain"
)

// UserRepository persists User records. Lookups return domain.ErrUserNotFound
// when no row matches; Create surfaces domain.ErrUsernameTaken or
// domain.ErrEmailTaken on unique-constraint violations, which is the
// authoritative duplicate guard under concurrent registration.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update persists the mutable fields (activated, password hash) and
	// refreshes updated_at.
	Update(ctx context.Context, user *domain.User) error
}

// RefreshTokenRepository persists one row per active device session.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	// FindByToken returns domain.ErrRefreshTokenNotFound when absent.
	FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	// DeleteByTokenAndDevice removes the single row matching both the token
	// value and the device identifier, reporting whether a row was deleted.
	// Other sessions of the same user are untouched.
	DeleteByTokenAndDevice(ctx context.Context, token, clientDeviceID string) (bool, error)
	// DeleteAllForUser drops every session of a user (password reset).
	DeleteAllForUser(ctx context.Context, userID string) error
}

// ActivationTokenRepository holds at most one live token per user.
type ActivationTokenRepository interface {
	// Replace deletes any existing token for the user, then inserts the new one.
	Replace(ctx context.Context, token *domain.ActivationToken) error
	// FindByToken returns domain.ErrActivationTokenInvalid when absent.
	FindByToken(ctx context.Context, token string) (*domain.ActivationToken, error)
	Delete(ctx context.Context, token string) error
}

// PasswordResetTokenRepository holds at most one live token per user.
type PasswordResetTokenRepository interface {
	Replace(ctx context.Context, token *domain.PasswordResetToken) error
	// FindByToken returns domain.ErrResetTokenInvalid when absent.
	FindByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error)
	Delete(ctx context.Context, token string) error
}
