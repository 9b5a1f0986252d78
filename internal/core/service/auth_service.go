package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/chatterbox/auth-service/internal/core/domain"
	"github.com/chatterbox/auth-service/internal/core/ports"
	"github.com/chatterbox/auth-service/internal/core/validation"
)

// AuthService orchestrates validation, store lookups, token issuance and
// consumption, and fire-and-forget notification. It holds no copies of store
// state; every operation re-reads before mutating.
type AuthService struct {
	users         ports.UserRepository
	refreshTokens ports.RefreshTokenRepository
	activations   ports.ActivationTokenRepository
	resets        ports.PasswordResetTokenRepository
	issuer        *TokenIssuer
	notifier      ports.Notifier
	limiter       ports.LoginLimiter
	refreshTTL    time.Duration
	log           zerolog.Logger
}

type Deps struct {
	Users         ports.UserRepository
	RefreshTokens ports.RefreshTokenRepository
	Activations   ports.ActivationTokenRepository
	Resets        ports.PasswordResetTokenRepository
	Issuer        *TokenIssuer
	Notifier      ports.Notifier
	// Limiter may be nil; login throttling is then disabled.
	Limiter    ports.LoginLimiter
	RefreshTTL time.Duration
	Log        zerolog.Logger
}

func NewAuthService(d Deps) *AuthService {
	return &AuthService{
		users:         d.Users,
		refreshTokens: d.RefreshTokens,
		activations:   d.Activations,
		resets:        d.Resets,
		issuer:        d.Issuer,
		notifier:      d.Notifier,
		limiter:       d.Limiter,
		refreshTTL:    d.RefreshTTL,
		log:           d.Log,
	}
}

// Register creates an unactivated user and its activation token, then
// requests the activation email. Uniqueness is checked before format rules so
// a taken-but-malformed username still reports the conflict. The store's
// unique constraints remain the authoritative guard under races; the
// pre-checks only buy a friendlier error.
func (s *AuthService) Register(ctx context.Context, username, email, password string) error {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if verr := validation.Invalid(map[string][]string{
		"username": validation.Username(username),
		"email":    validation.Email(email),
		"password": validation.Password(password),
	}); verr != nil {
		return verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Activated:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	token := &domain.ActivationToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.ActivationTokenTTL),
	}
	if err := s.activations.Replace(ctx, token); err != nil {
		return err
	}

	s.notifier.ActivationEmail(user, token.Token)
	s.log.Info().Str("username", username).Msg("user created")
	return nil
}

// Login verifies credentials and opens a new device session. The activation
// check runs after password verification so activation state cannot be probed
// without valid credentials. Unknown user and wrong password share one
// message to prevent username enumeration.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.Session, error) {
	if s.limiter != nil && !s.limiter.Allow(ctx, in.Username, in.IPAddress) {
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, in.Username, in.IPAddress)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		s.recordFailure(ctx, in.Username, in.IPAddress)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Activated {
		return nil, domain.ErrUserNotActivated
	}

	if s.limiter != nil {
		s.limiter.Clear(ctx, in.Username, in.IPAddress)
	}

	accessToken, err := s.issuer.Sign(user)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	refreshToken := &domain.RefreshToken{
		Token:          uuid.NewString(),
		UserID:         user.ID,
		ClientDeviceID: uuid.NewString(),
		IPAddress:      in.IPAddress,
		UserAgent:      in.UserAgent,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.refreshTTL),
	}
	if err := s.refreshTokens.Create(ctx, refreshToken); err != nil {
		return nil, err
	}

	s.log.Info().Str("username", user.Username).Str("ip", in.IPAddress).Msg("user logged in")
	return &ports.Session{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh issues a new access token for an existing session. The refresh
// token itself is not rotated. A device-identifier mismatch is treated as a
// stolen-token signal: the session is destroyed and the owner notified before
// the error is returned.
func (s *AuthService) Refresh(ctx context.Context, in ports.RefreshInput) (string, error) {
	user, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		return "", err
	}

	token, err := s.refreshTokens.FindByToken(ctx, in.RefreshToken)
	if err != nil {
		return "", err
	}

	if token.ClientDeviceID != in.ClientDeviceID {
		if err := s.refreshTokens.Delete(ctx, token.Token); err != nil {
			return "", err
		}
		s.log.Warn().
			Str("username", in.Username).
			Str("ip", in.IPAddress).
			Msg("client device identifier mismatch, session destroyed")
		if owner, err := s.users.FindByID(ctx, token.UserID); err == nil {
			s.notifier.UnusualActivityEmail(owner, in.IPAddress, in.UserAgent)
		}
		return "", domain.ErrDeviceMismatch
	}

	// Mismatched request, not a compromised token: the session survives.
	if token.UserID != user.ID {
		return "", domain.ErrUserMismatch
	}

	if token.Expired(time.Now().UTC()) {
		if err := s.refreshTokens.Delete(ctx, token.Token); err != nil {
			return "", err
		}
		return "", domain.ErrRefreshTokenExpired
	}

	return s.issuer.Sign(user)
}

// ResendActivationEmail replaces the user's activation token and re-sends the
// activation email.
func (s *AuthService) ResendActivationEmail(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Activated {
		return domain.ErrUserAlreadyActivated
	}

	now := time.Now().UTC()
	token := &domain.ActivationToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.ActivationTokenTTL),
	}
	if err := s.activations.Replace(ctx, token); err != nil {
		return err
	}

	s.notifier.ActivationEmail(user, token.Token)
	return nil
}

// ActivateAccount flips the user to activated and consumes the token. The
// token is also consumed on expiry, on an already-activated target, and on an
// owner mismatch, so it can never be replayed.
func (s *AuthService) ActivateAccount(ctx context.Context, username, tokenValue string) error {
	token, err := s.activations.FindByToken(ctx, tokenValue)
	if err != nil {
		return err
	}

	if token.Expired(time.Now().UTC()) {
		if err := s.activations.Delete(ctx, token.Token); err != nil {
			return err
		}
		return domain.ErrActivationTokenExpired
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if user.Activated {
		if err := s.activations.Delete(ctx, token.Token); err != nil {
			return err
		}
		return domain.ErrUserAlreadyActivated
	}

	// One user's token must not activate another's username.
	if token.UserID != user.ID {
		if err := s.activations.Delete(ctx, token.Token); err != nil {
			return err
		}
		return domain.ErrActivationTokenMismatch
	}

	user.Activated = true
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if err := s.activations.Delete(ctx, token.Token); err != nil {
		return err
	}

	s.log.Info().Str("username", user.Username).Msg("account activated")
	return nil
}

// ForgotPassword replaces the user's reset token and sends the reset email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	token := &domain.PasswordResetToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.PasswordResetTokenTTL),
	}
	if err := s.resets.Replace(ctx, token); err != nil {
		return err
	}

	s.notifier.PasswordResetEmail(user, token.Token)
	return nil
}

// ResetPassword sets a new password, consumes the reset token, and destroys
// every session the user holds.
func (s *AuthService) ResetPassword(ctx context.Context, tokenValue, password string) error {
	if verr := validation.Invalid(map[string][]string{
		"password": validation.Password(password),
	}); verr != nil {
		return verr
	}

	token, err := s.resets.FindByToken(ctx, tokenValue)
	if err != nil {
		return err
	}

	if token.Expired(time.Now().UTC()) {
		if err := s.resets.Delete(ctx, token.Token); err != nil {
			return err
		}
		return domain.ErrResetTokenExpired
	}

	user, err := s.users.FindByID(ctx, token.UserID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.resets.Delete(ctx, token.Token); err != nil {
		return err
	}
	if err := s.refreshTokens.DeleteAllForUser(ctx, user.ID); err != nil {
		return err
	}

	s.log.Info().Str("username", user.Username).Msg("password reset, all sessions invalidated")
	return nil
}

// Logout deletes the one session matching both the token value and the device
// identifier. Other devices of the same user keep their sessions. Logout is
// idempotent: a missing row is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken, clientDeviceID string) error {
	deleted, err := s.refreshTokens.DeleteByTokenAndDevice(ctx, refreshToken, clientDeviceID)
	if err != nil {
		return err
	}
	if !deleted {
		s.log.Debug().Msg("logout with no matching session")
	}
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, username, ip string) {
	if s.limiter != nil {
		s.limiter.RecordFailure(ctx, username, ip)
	}
}
