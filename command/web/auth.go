package web

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"fuel-dashboard/connectors/config"
)

// basicAuth gates every API route behind the configured credentials. The
// health probe stays open. Requests that fail the check never reach the
// pipeline.
func basicAuth(a config.Auth) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Realm: "fuel-dashboard",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/api/health" || !strings.HasPrefix(c.Request().URL.Path, "/api")
		},
		Validator: func(username, password string, c echo.Context) (bool, error) {
			userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
			passOK := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
			if !userOK || !passOK {
				slog.Warn("auth.rejected", "remote", c.RealIP(), "path", c.Request().URL.Path)
				return false, nil
			}
			return true, nil
		},
	})
}
