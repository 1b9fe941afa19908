package server

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/propmgr/internal/middleware"
)

// setupErrorHandling logs errors that reach Echo without being turned into
// an HTTP response, then hands off to the default handler.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		logger := middleware.FromContext(c.Request().Context())

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			if he.Code >= http.StatusInternalServerError {
				logger.Error("Server error", "status", he.Code, "error", err)
			}
		default:
			logger.Error("Internal Server Error (Unhandled)",
				"error", err,
				"stack_trace", string(debug.Stack()),
			)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
