package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the claims injected by the Auth middleware. Presence
// of a role proves the middleware ran; every authenticated route also needs
// the username to scope history access.
func ctxIdentity(c echo.Context) (username, role string, err error) {
	role, _ = c.Get("role").(string)
	username, _ = c.Get("username").(string)
	if role == "" || username == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, role, nil
}
