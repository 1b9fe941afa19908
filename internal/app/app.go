// Package app wires the application's services together with a samber/do
// injector. Services are built lazily, so a CLI command that only needs the
// account service never starts the HTTP stack.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nfrund/propmgr/internal/accounts"
	"github.com/nfrund/propmgr/internal/audit"
	"github.com/nfrund/propmgr/internal/config"
	"github.com/nfrund/propmgr/internal/database"
	"github.com/nfrund/propmgr/internal/domain"
	"github.com/nfrund/propmgr/internal/email"
	"github.com/nfrund/propmgr/internal/metrics"
	"github.com/nfrund/propmgr/internal/oauth"
	"github.com/nfrund/propmgr/internal/pubsub"
	"github.com/nfrund/propmgr/internal/rendering"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/do/v2"
	"github.com/surrealdb/surrealdb.go"
	"go.opentelemetry.io/otel/trace"
)

// GoogleCallbackPath is where Google sends the browser back to.
const GoogleCallbackPath = "/auth/google/callback"

// App owns the injector and the resources that need closing.
type App struct {
	injector do.Injector
	cfg      *config.Config
	logger   *slog.Logger

	mu          sync.Mutex
	db          *surrealdb.DB
	bus         *pubsub.WatermillBridge
	stopTracing func(context.Context) error
}

// New registers every service provider. Nothing is connected yet.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	i := do.New()
	a := &App{injector: i, cfg: cfg, logger: logger}

	do.ProvideValue[config.Provider](i, cfg)
	do.ProvideValue(i, logger)

	do.Provide(i, func(i do.Injector) (*surrealdb.DB, error) {
		db, err := database.NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close(ctx)
			return nil, err
		}
		a.mu.Lock()
		a.db = db
		a.mu.Unlock()
		return db, nil
	})
	do.Provide(i, func(i do.Injector) (domain.UserRepository, error) {
		db, err := do.Invoke[*surrealdb.DB](i)
		if err != nil {
			return nil, err
		}
		return database.NewSurrealUserStore(db, cfg.GetDBQueryTimeout()), nil
	})
	do.Provide(i, func(i do.Injector) (domain.AuthEventRepository, error) {
		db, err := do.Invoke[*surrealdb.DB](i)
		if err != nil {
			return nil, err
		}
		return database.NewSurrealEventStore(db, cfg.GetDBQueryTimeout()), nil
	})

	do.Provide(i, func(i do.Injector) (trace.Tracer, error) {
		tracer, stop, err := pubsub.SetupTracing(ctx, pubsub.TracingConfig{
			Enabled:     cfg.GetTracingEnabled(),
			ServiceName: "propmgr",
			ZipkinURL:   cfg.GetZipkinURL(),
		})
		if err != nil {
			return nil, err
		}
		a.mu.Lock()
		a.stopTracing = stop
		a.mu.Unlock()
		return tracer, nil
	})
	do.Provide(i, func(i do.Injector) (*pubsub.WatermillBridge, error) {
		tracer, err := do.Invoke[trace.Tracer](i)
		if err != nil {
			return nil, err
		}
		bus := pubsub.NewWatermillBridgeWithTracer(tracer)
		a.mu.Lock()
		a.bus = bus
		a.mu.Unlock()
		return bus, nil
	})
	do.Provide(i, func(i do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return reg, nil
	})
	do.Provide(i, func(i do.Injector) (*metrics.Auth, error) {
		return metrics.NewAuth(do.MustInvoke[*prometheus.Registry](i))
	})

	do.Provide(i, func(i do.Injector) (*accounts.Service, error) {
		users, err := do.Invoke[domain.UserRepository](i)
		if err != nil {
			return nil, err
		}
		opts := accounts.Options{
			Users:      users,
			States:     oauth.NewStateStore(cfg.GetOAuthStateTTL()),
			Publisher:  do.MustInvoke[*pubsub.WatermillBridge](i),
			Metrics:    do.MustInvoke[*metrics.Auth](i),
			SessionTTL: cfg.GetSessionTTL(),
			Logger:     logger,
		}
		if cfg.GoogleEnabled() {
			opts.Provider = oauth.NewGoogleProvider(cfg.GetGoogleClientID(), cfg.GetGoogleClientSecret(),
				cfg.GetAppBaseURL()+GoogleCallbackPath)
		} else {
			logger.Info("Google sign-in disabled: GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET not set")
		}
		return accounts.NewService(opts), nil
	})

	do.Provide(i, func(i do.Injector) (rendering.Renderer, error) {
		return rendering.NewUniversalRenderer(), nil
	})
	do.Provide(i, func(i do.Injector) (domain.EmailSender, error) {
		return email.NewEmailService(cfg)
	})
	do.Provide(i, func(i do.Injector) (*audit.Subscriber, error) {
		events, err := do.Invoke[domain.AuthEventRepository](i)
		if err != nil {
			return nil, err
		}
		emailer, err := do.Invoke[domain.EmailSender](i)
		if err != nil {
			return nil, err
		}
		return audit.NewSubscriber(
			do.MustInvoke[*pubsub.WatermillBridge](i),
			events,
			emailer,
			do.MustInvoke[rendering.Renderer](i),
			cfg.GetAppBaseURL(),
		), nil
	})

	return a
}

// Config returns the configuration the app was built with.
func (a *App) Config() *config.Config { return a.cfg }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Accounts returns the account service, connecting to the database on first use.
func (a *App) Accounts() (*accounts.Service, error) {
	svc, err := do.Invoke[*accounts.Service](a.injector)
	if err != nil {
		return nil, fmt.Errorf("build account service: %w", err)
	}
	return svc, nil
}

// Renderer returns the component renderer.
func (a *App) Renderer() rendering.Renderer {
	return do.MustInvoke[rendering.Renderer](a.injector)
}

// Bus returns the in-process event bus. It panics if tracing cannot be
// set up, which only happens with a malformed ZIPKIN_URL.
func (a *App) Bus() *pubsub.WatermillBridge {
	return do.MustInvoke[*pubsub.WatermillBridge](a.injector)
}

// Registry returns the Prometheus registry served on /metrics.
func (a *App) Registry() *prometheus.Registry {
	return do.MustInvoke[*prometheus.Registry](a.injector)
}

// Audit returns the audit subscriber.
func (a *App) Audit() (*audit.Subscriber, error) {
	return do.Invoke[*audit.Subscriber](a.injector)
}

// Close releases the bus and the database connection if they were built.
func (a *App) Close(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			a.logger.Warn("Failed to close event bus", "error", err)
		}
		a.bus = nil
	}
	if a.db != nil {
		a.db.Close(ctx)
		a.db = nil
	}
	if a.stopTracing != nil {
		if err := a.stopTracing(ctx); err != nil {
			a.logger.Warn("Failed to flush traces", "error", err)
		}
		a.stopTracing = nil
	}
}
