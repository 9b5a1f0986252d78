package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chatterbox/auth-service/internal/api/metrics"
	"github.com/chatterbox/auth-service/internal/core/domain"
	"github.com/chatterbox/auth-service/internal/core/ports"
	"github.com/chatterbox/auth-service/internal/core/validation"
)

// AuthHandler translates HTTP requests into AuthService calls and maps domain
// errors to status codes. Unexpected errors bubble up to the central error
// handler, which logs them and answers with a generic 500.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Username string `json:"username"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type activateRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error    string              `json:"error"`
	Username string              `json:"username,omitempty"`
	Email    string              `json:"email,omitempty"`
	Invalid  map[string][]string `json:"invalid,omitempty"`
}

// Register creates a new unactivated account and triggers the activation
// email. 201 on success, 400 on missing or malformed fields, 409 when the
// username or email is taken.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	if verr := validation.Required(
		validation.Field{Key: "username", Value: req.Username},
		validation.Field{Key: "email", Value: req.Email},
		validation.Field{Key: "password", Value: req.Password},
	); verr != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message})
	}

	err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		var verr *validation.Errors
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, errorResponse{Error: err.Error(), Username: req.Username})
		case errors.Is(err, domain.ErrEmailTaken):
			return c.JSON(http.StatusConflict, errorResponse{Error: err.Error(), Email: req.Email})
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message, Invalid: verr.Fields})
		}
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: "User created successfully"})
}

// Login verifies credentials, opens a device session, and returns the signed
// access token. The refresh token and client device identifier travel back as
// httpOnly cookies.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	if verr := validation.Required(
		validation.Field{Key: "username", Value: req.Username},
		validation.Field{Key: "password", Value: req.Password},
	); verr != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message})
	}

	session, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrUserNotActivated):
			metrics.LoginsTotal.WithLabelValues("not_activated").Inc()
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return c.JSON(http.StatusTooManyRequests, errorResponse{Error: err.Error()})
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	setSessionCookies(c, session.RefreshToken)
	return c.JSON(http.StatusOK, tokenResponse{Token: session.AccessToken})
}

// Refresh exchanges a valid session for a new access token. The refresh token
// is not rotated. A device-identifier mismatch or an expired token destroys
// the session and clears the cookies.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	refreshToken := cookieValue(c, cookieRefreshToken)
	clientDeviceID := cookieValue(c, cookieClientDeviceID)

	var missing []string
	if verr := validation.Required(validation.Field{Key: "username", Value: req.Username}); verr != nil {
		missing = append(missing, verr.Message)
	}
	if verr := validation.RequiredCookies(
		validation.Field{Key: cookieRefreshToken, Value: refreshToken},
		validation.Field{Key: cookieClientDeviceID, Value: clientDeviceID},
	); verr != nil {
		missing = append(missing, verr.Message)
	}
	if len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: strings.Join(missing, ", ")})
	}

	accessToken, err := h.authService.Refresh(c.Request().Context(), ports.RefreshInput{
		Username:       req.Username,
		RefreshToken:   refreshToken,
		ClientDeviceID: clientDeviceID,
		IPAddress:      c.RealIP(),
		UserAgent:      c.Request().UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDeviceMismatch):
			metrics.RefreshesTotal.WithLabelValues("device_mismatch").Inc()
			clearSessionCookies(c)
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrRefreshTokenExpired):
			metrics.RefreshesTotal.WithLabelValues("expired").Inc()
			clearSessionCookies(c)
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrUserNotFound),
			errors.Is(err, domain.ErrRefreshTokenNotFound),
			errors.Is(err, domain.ErrUserMismatch):
			metrics.RefreshesTotal.WithLabelValues("rejected").Inc()
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		return err
	}

	metrics.RefreshesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: accessToken})
}

// ResendActivationEmail replaces the pending activation token and re-sends
// the activation email. 403 when the account is already activated.
func (h *AuthHandler) ResendActivationEmail(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	if verr := validation.Required(validation.Field{Key: "email", Value: req.Email}); verr != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message})
	}

	err := h.authService.ResendActivationEmail(c.Request().Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrUserAlreadyActivated):
			return c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Activation email sent"})
}

// ActivateAccount consumes an activation token and flips the account to
// activated. Every failure answers 400.
func (h *AuthHandler) ActivateAccount(c echo.Context) error {
	var req activateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	if verr := validation.Required(
		validation.Field{Key: "username", Value: req.Username},
		validation.Field{Key: "token", Value: req.Token},
	); verr != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message})
	}

	err := h.authService.ActivateAccount(c.Request().Context(), req.Username, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrActivationTokenInvalid),
			errors.Is(err, domain.ErrActivationTokenExpired),
			errors.Is(err, domain.ErrActivationTokenMismatch),
			errors.Is(err, domain.ErrUserNotFound),
			errors.Is(err, domain.ErrUserAlreadyActivated):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return err
	}

	metrics.ActivationsTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Account activated successfully"})
}

// ForgotPassword replaces the user's password-reset token and sends the reset
// email.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	if verr := validation.Required(validation.Field{Key: "email", Value: req.Email}); verr != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message})
	}

	err := h.authService.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset email sent"})
}

// ResetPassword consumes a reset token, stores the new password hash, and
// invalidates every session the user holds.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	if verr := validation.Required(
		validation.Field{Key: "token", Value: req.Token},
		validation.Field{Key: "password", Value: req.Password},
	); verr != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message})
	}

	err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.Password)
	if err != nil {
		var verr *validation.Errors
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message, Invalid: verr.Fields})
		case errors.Is(err, domain.ErrResetTokenInvalid),
			errors.Is(err, domain.ErrResetTokenExpired),
			errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return err
	}

	metrics.PasswordResetsTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset successfully"})
}

// Logout deletes the presented session and clears every session cookie. The
// cookies are cleared and 200 returned even when no matching session exists.
func (h *AuthHandler) Logout(c echo.Context) error {
	refreshToken := cookieValue(c, cookieRefreshToken)
	clientDeviceID := cookieValue(c, cookieClientDeviceID)

	if verr := validation.RequiredCookies(
		validation.Field{Key: cookieRefreshToken, Value: refreshToken},
		validation.Field{Key: cookieClientDeviceID, Value: clientDeviceID},
	); verr != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message})
	}

	if err := h.authService.Logout(c.Request().Context(), refreshToken, clientDeviceID); err != nil {
		return err
	}

	clearSessionCookies(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}
