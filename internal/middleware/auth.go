package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/propmgr/internal/authsession"
	"github.com/nfrund/propmgr/internal/domain"
)

const UserContextKey = "user"

// Auth creates a middleware that protects routes that require authentication.
// Browsers without a valid session are sent to signInPath.
func Auth(auth authsession.Authenticator, signInPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := authsession.Token(c)
			if token == "" {
				return Redirect(c, signInPath)
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if errors.Is(err, domain.ErrInvalidCredentials) || (err == nil && user == nil) {
				// Drop the stale token so the sign-in screen doesn't see it.
				if err := authsession.ClearToken(c); err != nil {
					FromContext(c.Request().Context()).Warn("Failed to clear stale session", "error", err)
				}
				return Redirect(c, signInPath)
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session lookup failed").SetInternal(err)
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user Auth stored on c, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(UserContextKey).(*domain.User)
	return user
}

// Redirect sends htmx requests an HX-Redirect and everything else a 303.
func Redirect(c echo.Context, to string) error {
	if IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", to)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, to)
}

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}
