package authscreen

import "strings"

// Mode selects which email operation Submit performs.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// String returns the form value used for the mode ("login" or "register").
func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeRegister {
		return ModeLogin
	}
	return ModeRegister
}

// ParseMode maps a posted form value back to a Mode. Anything that is not
// "register" is treated as login, which is the screen's initial mode.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "register") {
		return ModeRegister
	}
	return ModeLogin
}

// FormState is the screen-local record of what the user has typed.
// Password must never be logged, persisted or rendered back to the client.
type FormState struct {
	Name     string
	Email    string
	Password string
	Mode     Mode
}

// NewFormState returns the state a freshly mounted screen starts with.
func NewFormState() FormState {
	return FormState{Mode: ModeLogin}
}

// complete reports whether every field registration needs is filled in.
func (f FormState) complete() bool {
	return f.Name != "" && f.Email != "" && f.Password != ""
}

// SessionStatus is the view of the session the controller reads on mount
// and after a successful submit.
type SessionStatus struct {
	Loading  bool
	LoggedIn bool
}

// GuardState is the render guard's state.
type GuardState int

const (
	// GuardChecking means the session status is still loading; nothing is rendered.
	GuardChecking GuardState = iota
	// GuardAuthenticated means the user is signed in and a redirect to the root was issued.
	GuardAuthenticated
	// GuardUnauthenticated means the form is rendered.
	GuardUnauthenticated
)

func (g GuardState) String() string {
	switch g {
	case GuardAuthenticated:
		return "authenticated"
	case GuardUnauthenticated:
		return "unauthenticated"
	default:
		return "checking"
	}
}

// Phase tracks whether an email submission is in flight.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
)
