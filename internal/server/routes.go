package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/propmgr/internal/app"
	"github.com/nfrund/propmgr/internal/middleware"
	"github.com/nfrund/propmgr/web/src/templates/pages"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	requireAuth := middleware.Auth(s.deps.Accounts, pages.SignInPath)

	s.E.GET("/", s.homeHandler.HomeGet, requireAuth)

	s.E.GET(pages.SignInPath, s.authHandler.SignInGet)
	s.E.POST(pages.SignInPath, s.authHandler.SignInPost, s.signInRateLimit)
	s.E.POST(pages.SignInModePath, s.authHandler.SignInMode)
	s.E.GET(pages.GoogleAuthPath, s.authHandler.GoogleStart, s.signInRateLimit)
	s.E.GET(app.GoogleCallbackPath, s.authHandler.GoogleCallback)
	s.E.GET(pages.SessionWSPath, s.sessionSocket.Serve)
	s.E.POST(pages.LogoutPath, s.authHandler.Logout)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	s.E.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.deps.Registry, promhttp.HandlerOpts{})))
}
