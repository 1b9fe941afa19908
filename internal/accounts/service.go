// Package accounts implements sign-up, sign-in, OAuth sign-in and sign-out
// on top of the user repository. Every successful path ends in a new
// session and a SessionEstablished event.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nfrund/propmgr/internal/domain"
	"github.com/nfrund/propmgr/internal/metrics"
	"github.com/nfrund/propmgr/internal/oauth"
	"github.com/nfrund/propmgr/internal/pubsub"
)

// Authentication methods, used in events, audit records and metrics.
const (
	MethodPassword = "password"
	MethodRegister = "register"
)

// RequestMeta describes the browser a request came from.
type RequestMeta struct {
	BrowserID string
	IP        string
}

// Options configures a Service. Provider may be nil when OAuth is disabled.
type Options struct {
	Users      domain.UserRepository
	Provider   oauth.Provider
	States     *oauth.StateStore
	Publisher  pubsub.Publisher
	Metrics    *metrics.Auth
	SessionTTL time.Duration
	Logger     *slog.Logger
}

// Service is the account service.
type Service struct {
	users      domain.UserRepository
	provider   oauth.Provider
	states     *oauth.StateStore
	publisher  pubsub.Publisher
	metrics    *metrics.Auth
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewService creates a Service.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	states := opts.States
	if states == nil {
		states = oauth.NewStateStore(10 * time.Minute)
	}
	return &Service{
		users:      opts.Users,
		provider:   opts.Provider,
		states:     states,
		publisher:  opts.Publisher,
		metrics:    opts.Metrics,
		sessionTTL: ttl,
		logger:     logger.With("component", "accounts"),
	}
}

// Register creates an email/password account and signs it in.
func (s *Service) Register(ctx context.Context, name, email, password string, meta RequestMeta) (*domain.Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.CreateUser(ctx, name, email, password)
	if err != nil {
		s.fail(ctx, MethodRegister, email, err)
		return nil, fmt.Errorf("register: %w", err)
	}
	return s.establish(ctx, user, MethodRegister, meta, true)
}

// SignIn checks an email/password pair and starts a session.
func (s *Service) SignIn(ctx context.Context, email, password string, meta RequestMeta) (*domain.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		s.fail(ctx, MethodPassword, email, domain.ErrInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.VerifyPassword(ctx, email, password)
	if err != nil {
		s.fail(ctx, MethodPassword, email, err)
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return s.establish(ctx, user, MethodPassword, meta, false)
}

// OAuthEnabled reports whether an identity provider is configured.
func (s *Service) OAuthEnabled() bool {
	return s.provider != nil
}

// BeginOAuth returns the provider URL the browser should be sent to.
func (s *Service) BeginOAuth(ctx context.Context, browserID string) (string, error) {
	if s.provider == nil {
		return "", domain.ErrProviderDisabled
	}
	state := s.states.Issue(browserID)
	s.metrics.Redirected()
	s.logger.DebugContext(ctx, "Starting OAuth flow", "provider", s.provider.Name())
	return s.provider.AuthCodeURL(state), nil
}

// CompleteOAuth handles the provider callback. The state is only accepted
// from the browser it was issued to, so a callback URL replayed in another
// browser cannot sign that browser in.
func (s *Service) CompleteOAuth(ctx context.Context, state, code string, meta RequestMeta) (*domain.Session, error) {
	if s.provider == nil {
		return nil, domain.ErrProviderDisabled
	}
	method := s.provider.Name()

	browserID, err := s.states.Consume(state)
	if err != nil {
		s.fail(ctx, method, "", err)
		return nil, err
	}
	if browserID == "" || browserID != meta.BrowserID {
		s.fail(ctx, method, "", domain.ErrInvalidOAuthState)
		return nil, domain.ErrInvalidOAuthState
	}

	identity, err := s.provider.Identity(ctx, code)
	if err != nil {
		s.fail(ctx, method, "", err)
		return nil, fmt.Errorf("oauth identity: %w", err)
	}
	identity.Email = normalizeEmail(identity.Email)

	user, created, err := s.users.UpsertOAuthUser(ctx, identity)
	if err != nil {
		s.fail(ctx, method, identity.Email, err)
		return nil, fmt.Errorf("oauth user: %w", err)
	}
	return s.establish(ctx, user, method, meta, created)
}

// Authenticate resolves a session token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return s.users.Authenticate(ctx, token)
}

// SignOut ends the session identified by token.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.users.DeleteSession(ctx, token)
}

func (s *Service) establish(ctx context.Context, user *domain.User, method string, meta RequestMeta, created bool) (*domain.Session, error) {
	session, err := s.users.CreateSession(ctx, user, s.sessionTTL)
	if err != nil {
		s.fail(ctx, method, user.Email, err)
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	s.metrics.Observe(method, metrics.OutcomeSuccess)
	s.metrics.SessionEstablished()

	userID := ""
	if user.ID != nil {
		userID = user.ID.String()
	}
	s.logger.InfoContext(ctx, "Session established", "user_id", userID, "method", method, "new_account", created)

	if s.publisher != nil {
		event := pubsub.SessionEstablished{
			UserID:     userID,
			Email:      user.Email,
			Name:       user.DisplayName(),
			Method:     method,
			BrowserID:  meta.BrowserID,
			IP:         meta.IP,
			NewAccount: created,
			At:         time.Now().UTC(),
		}
		if err := pubsub.Publish(ctx, s.publisher, pubsub.SessionEstablishedEvent, userID, event); err != nil {
			// The session exists; listeners just miss this one.
			s.logger.ErrorContext(ctx, "Failed to publish session event", "user_id", userID, "error", err)
		}
	}
	return session, nil
}

// fail records a failed attempt. Passwords never reach this point.
func (s *Service) fail(ctx context.Context, method, email string, err error) {
	outcome := outcomeFor(err)
	s.metrics.Observe(method, outcome)

	level := slog.LevelWarn
	if outcome == metrics.OutcomeError {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "Authentication failed", "method", method, "email", email, "outcome", outcome, "error", err)
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidOAuthState):
		return metrics.OutcomeInvalidCredentials
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return metrics.OutcomeDuplicate
	default:
		return metrics.OutcomeError
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
