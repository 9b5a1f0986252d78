package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chatterbox/auth-service/internal/core/domain"
)

// Session cookie names, shared with the web client.
const (
	cookieRefreshToken   = "refreshToken"
	cookieClientDeviceID = "clientDeviceIdentifier"
	cookieAccessToken    = "accessToken"
)

// sessionCookie builds a cross-site-capable session cookie. SameSite=None
// requires Secure; the client never reads these from script.
func sessionCookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// setSessionCookies attaches the refresh token and client device identifier
// of a freshly opened session.
func setSessionCookies(c echo.Context, token *domain.RefreshToken) {
	c.SetCookie(sessionCookie(cookieRefreshToken, token.Token, token.ExpiresAt))
	c.SetCookie(sessionCookie(cookieClientDeviceID, token.ClientDeviceID, token.ExpiresAt))
}

// clearSessionCookies expires every session cookie, including the access
// token cookie used by cookie-mode deployments.
func clearSessionCookies(c echo.Context) {
	for _, name := range []string{cookieRefreshToken, cookieClientDeviceID, cookieAccessToken} {
		cookie := sessionCookie(name, "", time.Unix(0, 0))
		cookie.MaxAge = -1
		c.SetCookie(cookie)
	}
}

// cookieValue returns the named cookie's value, or "" when absent.
func cookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
