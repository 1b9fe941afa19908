package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nfrund/propmgr/internal/accounts"
	"github.com/nfrund/propmgr/internal/domain"
	"github.com/nfrund/propmgr/internal/metrics"
	"github.com/nfrund/propmgr/internal/pubsub"
	"github.com/nfrund/propmgr/internal/rendering"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nobody is an account service with no accounts.
type nobody struct{}

func (nobody) Register(context.Context, string, string, string, accounts.RequestMeta) (*domain.Session, error) {
	return nil, domain.ErrUserAlreadyExists
}

func (nobody) SignIn(context.Context, string, string, accounts.RequestMeta) (*domain.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

func (nobody) OAuthEnabled() bool { return false }

func (nobody) BeginOAuth(context.Context, string) (string, error) {
	return "", domain.ErrProviderDisabled
}

func (nobody) CompleteOAuth(context.Context, string, string, accounts.RequestMeta) (*domain.Session, error) {
	return nil, domain.ErrInvalidOAuthState
}

func (nobody) Authenticate(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrInvalidCredentials
}

func (nobody) SignOut(context.Context, string) error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	bus := pubsub.NewWatermillBridge()
	t.Cleanup(func() { _ = bus.Close() })

	reg := prometheus.NewRegistry()
	m, err := metrics.NewAuth(reg)
	require.NoError(t, err)
	m.Observe("password", "ok")

	return New(Deps{
		Accounts:      nobody{},
		Renderer:      rendering.NewUniversalRenderer(),
		Events:        bus,
		Registry:      reg,
		SessionSecret: "a-very-secret-key-for-testing-!",
		SessionTTL:    time.Hour,
	})
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t)

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("home requires a session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/auth/sign-in", rec.Header().Get("Location"))
	})

	t.Run("sign-in page renders", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/sign-in", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `id="auth-form"`)
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "propmgr_auth_attempts_total")
	})

	t.Run("static assets are embedded", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/js/session.js", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "WebSocket"))
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
