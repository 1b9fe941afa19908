package handlers

import (
	"context"
	"fmt"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/propmgr/internal/accounts"
	"github.com/nfrund/propmgr/internal/authscreen"
	"github.com/nfrund/propmgr/internal/authsession"
	"github.com/nfrund/propmgr/web/src/templates/components"
)

// screen is one request's auth screen: the controller plus the request-bound
// collaborators it reports into.
type screen struct {
	ctrl    *authscreen.Controller
	auth    *requestAuth
	session *authsession.Context
	router  *requestRouter
	alerts  *alertCollector
}

// newScreen builds a controller for c and resolves the session so Mount can
// decide what to show.
func (h *AuthHandler) newScreen(c echo.Context, opts ...authscreen.Option) *screen {
	ctx := c.Request().Context()
	s := &screen{
		auth:    &requestAuth{c: c, h: h},
		session: authsession.New(c, h.accounts),
		router:  &requestRouter{},
		alerts:  &alertCollector{},
	}
	if err := s.session.Refetch(ctx); err != nil {
		h.log(c).Warn("Could not resolve session, treating browser as signed out", "error", err)
	}
	s.ctrl = authscreen.New(authscreen.Dependencies{
		Auth:    s.auth,
		Session: s.session,
		Router:  s.router,
		Alerts:  s.alerts,
		Logger:  h.log(c),
	}, opts...)
	return s
}

// requestAuth adapts the account service to the controller for one request.
// A successful email operation stores the session token in the cookie before
// returning, so the controller's refetch sees the browser signed in.
type requestAuth struct {
	c echo.Context
	h *AuthHandler

	// oauthURL is set by Login; flash is the success message to show next.
	oauthURL string
	flash    string
	// sessionLost is set when an account was created but its session
	// cookie could not be written.
	sessionLost bool
}

func (a *requestAuth) meta() accounts.RequestMeta {
	browserID, err := authsession.BrowserID(a.c)
	if err != nil {
		a.h.log(a.c).Warn("Could not assign browser id", "error", err)
	}
	return accounts.RequestMeta{BrowserID: browserID, IP: a.c.RealIP()}
}

func (a *requestAuth) Login(ctx context.Context) error {
	browserID, err := authsession.BrowserID(a.c)
	if err != nil {
		return err
	}
	url, err := a.h.accounts.BeginOAuth(ctx, browserID)
	if err != nil {
		return err
	}
	a.oauthURL = url
	return nil
}

func (a *requestAuth) RegisterWithEmail(ctx context.Context, name, email, password string) error {
	if err := a.h.validator.Validate(RegistrationRequest{Name: name, Email: email, Password: password}); err != nil {
		return fmt.Errorf("registration rejected: %w", err)
	}
	session, err := a.h.accounts.Register(ctx, name, email, password, a.meta())
	if err != nil {
		return err
	}
	a.flash = FlashAccountCreated
	if err := authsession.SetToken(a.c, session.Token, a.h.sessionTTL); err != nil {
		// The account exists, so a retry would only hit ErrUserAlreadyExists.
		a.h.log(a.c).Error("Failed to store session after registration", "error", err)
		a.sessionLost = true
	}
	return nil
}

func (a *requestAuth) SignInWithEmail(ctx context.Context, email, password string) error {
	if err := a.h.validator.Validate(LoginRequest{Email: email, Password: password}); err != nil {
		return fmt.Errorf("login rejected: %w", err)
	}
	session, err := a.h.accounts.SignIn(ctx, email, password, a.meta())
	if err != nil {
		return err
	}
	a.flash = FlashLoggedIn
	return authsession.SetToken(a.c, session.Token, a.h.sessionTTL)
}

// requestRouter records the redirect; the handler turns it into a response.
type requestRouter struct {
	redirected bool
}

func (r *requestRouter) RedirectToRoot() { r.redirected = true }

// alertCollector gathers alerts for the response.
type alertCollector struct {
	mu     sync.Mutex
	alerts []components.Alert
}

func (a *alertCollector) Alert(title, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, components.Alert{Title: title, Message: message})
}

func (a *alertCollector) list() []components.Alert {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]components.Alert(nil), a.alerts...)
}
