package ports

import "github.com/chatterbox/auth-service/internal/core/domain"

// Notifier requests email delivery. Implementations are fire-and-forget: the
// call must return immediately and never surface delivery failures to the
// caller; failures are logged and counted by the implementation.
type Notifier interface {
	ActivationEmail(user *domain.User, token string)
	PasswordResetEmail(user *domain.User, token string)
	UnusualActivityEmail(user *domain.User, ip, userAgent string)
}
