package authscreen

import "context"

// AuthService performs the actual authentication. A nil error is the
// success indicator; the controller does not look at the cause of a failure.
type AuthService interface {
	// Login starts the interactive OAuth flow. The service owns the whole
	// redirect/callback round trip and updates the session on its own.
	Login(ctx context.Context) error
	RegisterWithEmail(ctx context.Context, name, email, password string) error
	SignInWithEmail(ctx context.Context, email, password string) error
}

// SessionContext exposes the current login status.
type SessionContext interface {
	Status() SessionStatus
	// Refetch reloads the session state. The controller ignores its result
	// beyond logging.
	Refetch(ctx context.Context) error
}

// Router issues navigation effects.
type Router interface {
	RedirectToRoot()
}

// Alerter shows a user-visible alert.
type Alerter interface {
	Alert(title, message string)
}
