package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type meResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Me echoes the identity carried by the verified access token. Web clients
// use it to restore session state after a page load.
func (h *AuthHandler) Me(c echo.Context) error {
	id, _ := c.Get("user_id").(string)
	username, _ := c.Get("username").(string)
	if id == "" || username == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	return c.JSON(http.StatusOK, meResponse{ID: id, Username: username})
}
