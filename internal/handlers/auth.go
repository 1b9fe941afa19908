package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/propmgr/internal/accounts"
	"github.com/nfrund/propmgr/internal/authscreen"
	"github.com/nfrund/propmgr/internal/authsession"
	"github.com/nfrund/propmgr/internal/domain"
	"github.com/nfrund/propmgr/internal/middleware"
	"github.com/nfrund/propmgr/internal/rendering"
	"github.com/nfrund/propmgr/internal/view"
	"github.com/nfrund/propmgr/web/src/templates/components"
	"github.com/nfrund/propmgr/web/src/templates/layouts"
	"github.com/nfrund/propmgr/web/src/templates/pages"
)

// Flash messages shown after a redirect.
const (
	FlashLoggedIn       = "Logged in successfully!"
	FlashAccountCreated = "Account created successfully!"
	FlashLoggedOut      = "You have been logged out."
)

// AccountService is what the auth handlers need from the account service.
type AccountService interface {
	Register(ctx context.Context, name, email, password string, meta accounts.RequestMeta) (*domain.Session, error)
	SignIn(ctx context.Context, email, password string, meta accounts.RequestMeta) (*domain.Session, error)
	OAuthEnabled() bool
	BeginOAuth(ctx context.Context, browserID string) (string, error)
	CompleteOAuth(ctx context.Context, state, code string, meta accounts.RequestMeta) (*domain.Session, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	SignOut(ctx context.Context, token string) error
}

// AuthHandler serves the sign-in screen and the session endpoints.
type AuthHandler struct {
	accounts   AccountService
	renderer   rendering.Renderer
	validator  *CustomValidator
	sessionTTL time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts AccountService, renderer rendering.Renderer, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		accounts:   accounts,
		renderer:   renderer,
		validator:  NewValidator(),
		sessionTTL: sessionTTL,
	}
}

func (h *AuthHandler) log(c echo.Context) *slog.Logger {
	return middleware.FromContext(c.Request().Context())
}

// SignInGet renders the sign-in screen (GET /auth/sign-in), or sends a
// signed-in browser to the root.
func (h *AuthHandler) SignInGet(c echo.Context) error {
	s := h.newScreen(c)
	if s.ctrl.Mount(c.Request().Context()) != authscreen.GuardUnauthenticated {
		return h.afterMount(c, s)
	}
	defer s.ctrl.Unmount()

	// The browser id ties OAuth completions back to this screen.
	if _, err := authsession.BrowserID(c); err != nil {
		h.log(c).Warn("Could not assign browser id", "error", err)
	}

	form, _ := s.ctrl.Form()
	return h.renderSignIn(c, http.StatusOK, form, nil)
}

// SignInPost submits the form (POST /auth/sign-in).
func (h *AuthHandler) SignInPost(c echo.Context) error {
	var form SignInForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form").SetInternal(err)
	}

	ctx := c.Request().Context()
	s := h.newScreen(c, authscreen.WithForm(form.FormState()))
	if s.ctrl.Mount(ctx) != authscreen.GuardUnauthenticated {
		return h.afterMount(c, s)
	}
	defer s.ctrl.Unmount()

	err := s.ctrl.Submit(ctx)
	switch {
	case errors.Is(err, authscreen.ErrNotMounted):
		// The client went away; nothing to answer.
		return ctx.Err()
	case errors.Is(err, authscreen.ErrMissingFields), errors.Is(err, authscreen.ErrAuthFailed):
		h.log(c).Info("Sign-in form rejected", "reason", err)
	case err != nil:
		return err
	}

	if s.auth.sessionLost {
		view.SetFlashSuccess(c, FlashAccountCreated)
		return middleware.Redirect(c, pages.SignInPath)
	}
	if s.router.redirected {
		if s.auth.flash != "" {
			view.SetFlashSuccess(c, s.auth.flash)
		}
		return middleware.Redirect(c, "/")
	}

	alerts := s.alerts.list()
	if middleware.IsHTMX(c) {
		return h.renderer.RenderPage(c, http.StatusOK, components.Alerts(alerts))
	}
	state, _ := s.ctrl.Form()
	return h.renderSignIn(c, http.StatusUnprocessableEntity, state, alerts)
}

// SignInMode toggles between login and register (POST /auth/sign-in/mode).
// htmx requests get only the mode-dependent regions back, so what the user
// typed into the other inputs stays in place.
func (h *AuthHandler) SignInMode(c echo.Context) error {
	var form SignInForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form").SetInternal(err)
	}

	s := h.newScreen(c, authscreen.WithForm(form.FormState()))
	if s.ctrl.Mount(c.Request().Context()) != authscreen.GuardUnauthenticated {
		return h.afterMount(c, s)
	}
	defer s.ctrl.Unmount()

	s.ctrl.ToggleMode()
	state, _ := s.ctrl.Form()

	if middleware.IsHTMX(c) {
		return h.renderer.RenderPage(c, http.StatusOK, pages.ModeSwap(h.signInData(state, nil)))
	}
	return h.renderSignIn(c, http.StatusOK, state, nil)
}

// GoogleStart sends the browser to Google (GET /auth/google).
func (h *AuthHandler) GoogleStart(c echo.Context) error {
	ctx := c.Request().Context()
	s := h.newScreen(c)
	if s.ctrl.Mount(ctx) != authscreen.GuardUnauthenticated {
		return h.afterMount(c, s)
	}
	defer s.ctrl.Unmount()

	if err := s.ctrl.ContinueWithGoogle(ctx); err != nil || s.auth.oauthURL == "" {
		h.log(c).Warn("Could not start Google sign-in", "error", err)
		view.SetFlashError(c, authscreen.MsgLoginFailed)
		return c.Redirect(http.StatusSeeOther, pages.SignInPath)
	}
	return c.Redirect(http.StatusSeeOther, s.auth.oauthURL)
}

// GoogleCallback completes Google sign-in (GET /auth/google/callback).
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	var cb OAuthCallback
	if err := c.Bind(&cb); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid callback").SetInternal(err)
	}
	if cb.Error != "" {
		h.log(c).Info("Google sign-in was not completed", "error", cb.Error)
		view.SetFlashError(c, authscreen.MsgLoginFailed)
		return c.Redirect(http.StatusSeeOther, pages.SignInPath)
	}

	browserID, err := authsession.BrowserID(c)
	if err != nil {
		h.log(c).Warn("Could not read browser id", "error", err)
	}
	meta := accounts.RequestMeta{BrowserID: browserID, IP: c.RealIP()}
	session, err := h.accounts.CompleteOAuth(c.Request().Context(), cb.State, cb.Code, meta)
	if err != nil {
		view.SetFlashError(c, authscreen.MsgLoginFailed)
		return c.Redirect(http.StatusSeeOther, pages.SignInPath)
	}
	if err := authsession.SetToken(c, session.Token, h.sessionTTL); err != nil {
		return err
	}

	view.SetFlashSuccess(c, FlashLoggedIn)
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout ends the session (POST /auth/logout).
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.accounts.SignOut(c.Request().Context(), authsession.Token(c)); err != nil {
		h.log(c).Error("Failed to delete session", "error", err)
	}
	if err := authsession.ClearToken(c); err != nil {
		return err
	}

	view.SetFlashSuccess(c, FlashLoggedOut)
	return middleware.Redirect(c, pages.SignInPath)
}

// afterMount answers a request whose screen did not reach the form: either
// the browser is signed in, or its status could not be determined.
func (h *AuthHandler) afterMount(c echo.Context, s *screen) error {
	if s.router.redirected {
		return middleware.Redirect(c, "/")
	}
	return echo.NewHTTPError(http.StatusServiceUnavailable, "session status unavailable")
}

func (h *AuthHandler) signInData(state authscreen.FormState, alerts []components.Alert) pages.SignInData {
	return pages.SignInData{
		Mode:          state.Mode,
		Name:          state.Name,
		Email:         state.Email,
		Alerts:        alerts,
		GoogleEnabled: h.accounts.OAuthEnabled(),
	}
}

func (h *AuthHandler) renderSignIn(c echo.Context, status int, state authscreen.FormState, alerts []components.Alert) error {
	page := layouts.Base("Sign in", view.GetFlashData(c), pages.SignIn(h.signInData(state, alerts)), pages.SignInScripts())
	return h.renderer.RenderPage(c, status, page)
}
