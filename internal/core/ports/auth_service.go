package ports

import (
	"context"

	"github.com/chatterbox/auth-service/internal/core/domain"
)

// LoginInput carries credentials plus request metadata captured by the
// transport layer. IP and user agent are diagnostic; they end up on the
// refresh-token row and in the unusual-activity email.
type LoginInput struct {
	Username  string
	Password  string
	IPAddress string
	UserAgent string
}

// RefreshInput identifies the session requesting a new access token. Username
// arrives in the body; the token pair arrives in cookies.
type RefreshInput struct {
	Username       string
	RefreshToken   string
	ClientDeviceID string
	IPAddress      string
	UserAgent      string
}

// Session is a successful login: the signed access token for the response
// body and the refresh-token row whose identifiers become session cookies.
type Session struct {
	AccessToken  string
	RefreshToken *domain.RefreshToken
}

// AuthService exposes the credential-lifecycle operations. All input presence
// checks happen at the transport boundary; the service assumes non-empty
// arguments and owns format rules, uniqueness, token issuance and consumption.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, in LoginInput) (*Session, error)
	Refresh(ctx context.Context, in RefreshInput) (string, error)
	ResendActivationEmail(ctx context.Context, email string) error
	ActivateAccount(ctx context.Context, username, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	Logout(ctx context.Context, refreshToken, clientDeviceID string) error
}
