package authscreen

import "errors"

var (
	// ErrMissingFields is returned by Submit when registration is attempted
	// with an empty name, email or password.
	ErrMissingFields = errors.New("all fields are required for registration")

	// ErrAuthFailed is returned by Submit when the auth service reports a
	// failure. It never carries the underlying cause.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrSubmitInProgress is returned when Submit is called while a previous
	// submission has not resolved yet.
	ErrSubmitInProgress = errors.New("a submission is already in progress")

	// ErrNotMounted is returned when the screen is not mounted, or stopped
	// being mounted while a call was in flight.
	ErrNotMounted = errors.New("auth screen is not mounted")

	// ErrFormNotShown is returned when the render guard hides the form,
	// either because the session is still loading or the user is signed in.
	ErrFormNotShown = errors.New("auth form is not shown")
)
