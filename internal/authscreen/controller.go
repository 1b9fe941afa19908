// Package authscreen implements the sign-in/registration screen controller.
//
// The controller owns the form state and the login/register mode, validates
// input on submit and delegates the actual authentication to an AuthService.
// Session state, navigation and alerts are collaborators passed in through
// Dependencies so the controller can run inside an HTTP handler, a CLI or a
// test without any ambient globals.
package authscreen

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Dependencies holds the collaborators of a Controller.
type Dependencies struct {
	Auth    AuthService
	Session SessionContext
	Router  Router
	Alerts  Alerter
	// Logger is optional; slog.Default() is used when nil.
	Logger *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithForm seeds the controller with previously entered values. It is how a
// stateless request restores what the browser posted.
func WithForm(f FormState) Option {
	return func(c *Controller) {
		c.form = f
		c.formReady = true
	}
}

// Controller drives the auth screen. It is safe for concurrent use; the lock
// is never held while a collaborator call is in flight.
type Controller struct {
	auth    AuthService
	session SessionContext
	router  Router
	alerts  Alerter
	logger  *slog.Logger

	mu        sync.Mutex
	form      FormState
	formReady bool
	guard     GuardState
	phase     Phase
	mounted   bool
}

// New creates a Controller. Call Mount before using it.
func New(deps Dependencies, opts ...Option) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		auth:    deps.Auth,
		session: deps.Session,
		router:  deps.Router,
		alerts:  deps.Alerts,
		logger:  logger,
		guard:   GuardChecking,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount evaluates the render guard against the current session status.
// When the user is already signed in a redirect to the root is issued and
// no form state is initialised.
func (c *Controller) Mount(ctx context.Context) GuardState {
	status := c.session.Status()
	c.mu.Lock()
	c.mounted = true
	guard, redirect := c.evaluateLocked(status)
	c.mu.Unlock()

	if redirect {
		c.logger.DebugContext(ctx, "session already authenticated, redirecting")
		c.router.RedirectToRoot()
	}
	return guard
}

// Unmount marks the screen as gone. Results of calls still in flight are
// discarded once they resolve.
func (c *Controller) Unmount() {
	c.mu.Lock()
	c.mounted = false
	c.mu.Unlock()
}

// evaluateLocked moves the guard to match status and reports whether a
// redirect must be issued. c.mu must be held.
func (c *Controller) evaluateLocked(status SessionStatus) (GuardState, bool) {
	redirect := false

	switch {
	case status.Loading:
		c.guard = GuardChecking
	case status.LoggedIn:
		redirect = c.guard != GuardAuthenticated
		c.guard = GuardAuthenticated
	default:
		if !c.formReady {
			c.form = NewFormState()
			c.formReady = true
		}
		c.guard = GuardUnauthenticated
	}
	return c.guard, redirect
}

// Guard returns the current render guard state.
func (c *Controller) Guard() GuardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guard
}

// Phase returns whether a submission is in flight.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Form returns the form state and whether the form should be rendered.
func (c *Controller) Form() (FormState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.guard != GuardUnauthenticated {
		return FormState{}, false
	}
	return c.form, true
}

// Copy returns the screen text for the current mode.
func (c *Controller) Copy() Copy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CopyFor(c.form.Mode)
}

func (c *Controller) SetName(v string) {
	c.mu.Lock()
	c.form.Name = v
	c.mu.Unlock()
}

func (c *Controller) SetEmail(v string) {
	c.mu.Lock()
	c.form.Email = v
	c.mu.Unlock()
}

func (c *Controller) SetPassword(v string) {
	c.mu.Lock()
	c.form.Password = v
	c.mu.Unlock()
}

// ToggleMode flips between login and register and returns the new mode.
// Field values are kept.
func (c *Controller) ToggleMode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Mode = c.form.Mode.Toggle()
	return c.form.Mode
}

// Submit validates the form and calls the auth service for the current mode.
//
// On success the session is refetched and the guard re-evaluated, which
// issues the redirect once the session reports the user as signed in. On
// failure an alert naming the attempted action is shown and the form is
// left as it was so the user can try again.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return ErrNotMounted
	}
	if c.guard != GuardUnauthenticated {
		c.mu.Unlock()
		return ErrFormNotShown
	}
	if c.phase == PhaseSubmitting {
		c.mu.Unlock()
		return ErrSubmitInProgress
	}
	form := c.form
	if form.Mode == ModeRegister && !form.complete() {
		c.mu.Unlock()
		c.alerts.Alert(AlertTitle, MsgFieldsRequired)
		return ErrMissingFields
	}
	c.phase = PhaseSubmitting
	c.mu.Unlock()

	var err error
	if form.Mode == ModeRegister {
		err = c.auth.RegisterWithEmail(ctx, form.Name, form.Email, form.Password)
	} else {
		err = c.auth.SignInWithEmail(ctx, form.Email, form.Password)
	}

	c.mu.Lock()
	c.phase = PhaseIdle
	live := c.mounted && ctx.Err() == nil
	c.mu.Unlock()

	if !live {
		c.logger.DebugContext(ctx, "discarding auth result for unmounted screen", "mode", form.Mode.String())
		return ErrNotMounted
	}

	if err != nil {
		c.logger.InfoContext(ctx, "authentication failed", "mode", form.Mode.String(), "error", err)
		c.alerts.Alert(AlertTitle, failureMessage(form.Mode))
		return fmt.Errorf("%w: %s", ErrAuthFailed, form.Mode)
	}

	if err := c.session.Refetch(ctx); err != nil {
		c.logger.WarnContext(ctx, "session refetch after authentication failed", "error", err)
	}

	status := c.session.Status()
	c.mu.Lock()
	redirect := false
	if c.mounted {
		_, redirect = c.evaluateLocked(status)
	}
	c.mu.Unlock()

	if redirect {
		c.router.RedirectToRoot()
	}
	return nil
}

// ContinueWithGoogle hands control to the auth service's OAuth flow.
func (c *Controller) ContinueWithGoogle(ctx context.Context) error {
	c.mu.Lock()
	mounted, guard := c.mounted, c.guard
	c.mu.Unlock()
	if !mounted {
		return ErrNotMounted
	}
	if guard != GuardUnauthenticated {
		return ErrFormNotShown
	}
	return c.auth.Login(ctx)
}
