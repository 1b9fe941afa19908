package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/propmgr/internal/app"
	"github.com/nfrund/propmgr/internal/audit"
	"github.com/nfrund/propmgr/internal/handlers"
	"github.com/nfrund/propmgr/internal/middleware"
	"github.com/nfrund/propmgr/internal/pubsub"
	"github.com/nfrund/propmgr/internal/rendering"
	"github.com/nfrund/propmgr/web"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps are the services the HTTP layer is built from.
type Deps struct {
	Accounts      handlers.AccountService
	Renderer      rendering.Renderer
	Events        pubsub.Subscriber
	Registry      *prometheus.Registry
	Audit         *audit.Subscriber
	SessionSecret string
	SessionTTL    time.Duration
	Logger        *slog.Logger
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E      *echo.Echo
	deps   Deps
	logger *slog.Logger

	authHandler     *handlers.AuthHandler
	homeHandler     *handlers.HomeHandler
	sessionSocket   *handlers.SessionSocketHandler
	signInRateLimit echo.MiddlewareFunc
}

// FromApp resolves the server's dependencies from the application container.
func FromApp(a *app.App) (*Server, error) {
	accts, err := a.Accounts()
	if err != nil {
		return nil, err
	}
	auditSub, err := a.Audit()
	if err != nil {
		return nil, fmt.Errorf("build audit subscriber: %w", err)
	}
	cfg := a.Config()
	return New(Deps{
		Accounts:      accts,
		Renderer:      a.Renderer(),
		Events:        a.Bus(),
		Registry:      a.Registry(),
		Audit:         auditSub,
		SessionSecret: cfg.GetSessionSecret(),
		SessionTTL:    cfg.GetSessionTTL(),
		Logger:        a.Logger(),
	}), nil
}

// New creates the Echo instance, installs middleware and registers routes.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	setupErrorHandling(e)

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger(deps.Logger))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			middleware.FromContext(c.Request().Context()).Info("request",
				"uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(echomw.Recover())

	store := sessions.NewCookieStore([]byte(deps.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(deps.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	e.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	s := &Server{
		E:               e,
		deps:            deps,
		logger:          deps.Logger,
		authHandler:     handlers.NewAuthHandler(deps.Accounts, deps.Renderer, deps.SessionTTL),
		homeHandler:     handlers.NewHomeHandler(deps.Renderer),
		sessionSocket:   handlers.NewSessionSocketHandler(deps.Events),
		signInRateLimit: middleware.SignInRateLimiter(),
	}
	s.RegisterRoutes()
	return s
}

// StartBackground starts the subscribers that live as long as ctx.
func (s *Server) StartBackground(ctx context.Context) error {
	if s.deps.Audit == nil {
		return nil
	}
	return s.deps.Audit.Start(ctx)
}
