// Package authsession keeps the signed-in state of a browser in a signed
// cookie session and exposes it to the auth screen as its session context.
package authsession

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/propmgr/internal/authscreen"
	"github.com/nfrund/propmgr/internal/domain"
)

const (
	// SessionName is the cookie session holding the auth state.
	SessionName = "auth-session"

	keyToken   = "token"
	keyBrowser = "browser_id"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Context is the session context of one request. Its status reads as
// loading until Refetch has resolved the stored token.
type Context struct {
	c    echo.Context
	auth Authenticator

	mu     sync.Mutex
	status authscreen.SessionStatus
	user   *domain.User
}

var _ authscreen.SessionContext = (*Context)(nil)

// New returns a Context for the request in c.
func New(c echo.Context, auth Authenticator) *Context {
	return &Context{
		c:      c,
		auth:   auth,
		status: authscreen.SessionStatus{Loading: true},
	}
}

// Status returns the last resolved status.
func (s *Context) Status() authscreen.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// User returns the signed-in user, or nil.
func (s *Context) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Refetch resolves the token stored in the cookie session. An invalid or
// expired token signs the browser out and is not an error.
func (s *Context) Refetch(ctx context.Context) error {
	token := Token(s.c)
	if token == "" {
		s.set(nil)
		return nil
	}

	user, err := s.auth.Authenticate(ctx, token)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		s.set(nil)
		return ClearToken(s.c)
	case err != nil:
		// Keep the previous status so a transient failure doesn't sign anyone out.
		s.mu.Lock()
		s.status.Loading = false
		s.mu.Unlock()
		return fmt.Errorf("refetch session: %w", err)
	}
	s.set(user)
	return nil
}

func (s *Context) set(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.status = authscreen.SessionStatus{LoggedIn: user != nil}
}

// Token returns the session token of the request, or "".
func Token(c echo.Context) string {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[keyToken].(string)
	return token
}

// BrowserID returns the id identifying this browser, creating and saving
// one on first use.
func BrowserID(c echo.Context) (string, error) {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	if id, ok := sess.Values[keyBrowser].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	sess.Values[keyBrowser] = id
	if err := save(c, sess, 0); err != nil {
		return "", err
	}
	return id, nil
}

// SetToken stores token in the cookie session for ttl.
func SetToken(c echo.Context, token string, ttl time.Duration) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	sess.Values[keyToken] = token
	return save(c, sess, ttl)
}

// ClearToken removes the token but keeps the browser id.
func ClearToken(c echo.Context) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if _, ok := sess.Values[keyToken]; !ok {
		return nil
	}
	delete(sess.Values, keyToken)
	return save(c, sess, 0)
}

// save writes the session cookie. HttpOnly and SameSite=Lax always apply;
// Secure follows the request's TLS state.
func save(c echo.Context, sess *sessions.Session, ttl time.Duration) error {
	var opts sessions.Options
	if sess.Options != nil {
		opts = *sess.Options
	}
	opts.Path = "/"
	opts.HttpOnly = true
	opts.SameSite = http.SameSiteLaxMode
	opts.Secure = c.Request().TLS != nil
	if ttl > 0 {
		opts.MaxAge = int(ttl.Seconds())
	}
	sess.Options = &opts

	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
