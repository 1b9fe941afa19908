package domain

import (
	"context"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// User represents the core user model in the application domain.
type User struct {
	ID       *surrealmodels.RecordID `json:"id,omitempty"`
	Email    string                  `json:"email"`
	Name     *string                 `json:"name,omitempty"`
	Provider string                  `json:"provider,omitempty"`
}

// DisplayName returns the user's name, or the email when no name was given.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

// Session is an authenticated browser session.
type Session struct {
	Token     string
	User      *User
	ExpiresAt time.Time
}

// OAuthIdentity is what an identity provider tells us about a user.
type OAuthIdentity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

// UserRepository defines the contract for user and session storage.
// It lives in the domain because it's a requirement OF the domain, not
// of the database implementation.
type UserRepository interface {
	// CreateUser stores a new email/password account. The password is
	// hashed by the store.
	CreateUser(ctx context.Context, name, email, password string) (*User, error)
	// VerifyPassword returns the user when the credentials match.
	VerifyPassword(ctx context.Context, email, password string) (*User, error)
	// UpsertOAuthUser finds or creates the user for an identity.
	UpsertOAuthUser(ctx context.Context, identity OAuthIdentity) (*User, bool, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)

	CreateSession(ctx context.Context, user *User, ttl time.Duration) (*Session, error)
	// Authenticate resolves a session token to its user.
	Authenticate(ctx context.Context, token string) (*User, error)
	DeleteSession(ctx context.Context, token string) error
}

// AuthEvent is an audit record of a successful authentication.
type AuthEvent struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Method    string    `json:"method"`
	IP        string    `json:"ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthEventRepository stores audit records.
type AuthEventRepository interface {
	RecordAuthEvent(ctx context.Context, event AuthEvent) error
}
