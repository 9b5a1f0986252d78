package domain

import "errors"

// Sentinel errors for every domain failure the auth flow can surface. The
// message text is part of the API contract; the HTTP handlers map each
// sentinel to its status code.
var (
	ErrUsernameTaken = errors.New("Username is already taken. Please choose another one")
	ErrEmailTaken    = errors.New("Email is already taken. Please choose another one")

	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrUserNotActivated   = errors.New("User is not activated")
	ErrTooManyAttempts    = errors.New("Too many failed login attempts")

	ErrUserNotFound         = errors.New("User does not exist")
	ErrRefreshTokenNotFound = errors.New("Refresh token does not exist")
	ErrDeviceMismatch       = errors.New("Client device identifier does not match")
	ErrUserMismatch         = errors.New("User does not match")
	ErrRefreshTokenExpired  = errors.New("Refresh token expired")

	ErrUserAlreadyActivated    = errors.New("User already activated")
	ErrActivationTokenInvalid  = errors.New("Invalid activation token")
	ErrActivationTokenExpired  = errors.New("Activation token expired")
	ErrActivationTokenMismatch = errors.New("Activation token does not match the user")

	ErrResetTokenInvalid = errors.New("Invalid password reset token")
	ErrResetTokenExpired = errors.New("Password reset token expired")
)
