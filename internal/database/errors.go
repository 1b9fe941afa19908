package database

import (
	"errors"
	"fmt"
	"strings"
)

// ErrQueryFailed matches every DBError produced by a failed query.
var ErrQueryFailed = errors.New("query execution failed")

// DBError represents a database error with additional context.
type DBError struct {
	// The underlying error that was returned by the database driver.
	err error

	// Additional context about where the error occurred.
	context string

	// The query that was being executed when the error occurred.
	query string
}

// NewDBError creates a new DBError with the given error and context.
// The context should describe what operation was being performed when the error occurred.
func NewDBError(err error, context string) *DBError {
	return &DBError{
		err:     err,
		context: context,
	}
}

// WithQuery adds query information to the error. Parameters are never
// attached since they can carry credentials.
func (e *DBError) WithQuery(query string) *DBError {
	e.query = strings.Join(strings.Fields(query), " ")
	return e
}

// Error returns the error message.
func (e *DBError) Error() string {
	msg := e.context
	if e.query != "" {
		msg = fmt.Sprintf("%s [query: %s]", msg, e.query)
	}
	if e.err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *DBError) Unwrap() error {
	return e.err
}

// Is lets errors.Is match ErrQueryFailed against any DBError.
func (e *DBError) Is(target error) bool {
	return target == ErrQueryFailed
}

// isDuplicate reports whether the driver rejected a write because of a
// unique index.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "already contains")
}
