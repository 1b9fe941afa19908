package database

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nfrund/propmgr/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// ProviderPassword marks accounts created with an email and password.
const ProviderPassword = "password"

// SurrealUserStore encapsulates database operations for users and their
// sessions using SurrealDB. Passwords are hashed inside the database with
// argon2 and never read back.
type SurrealUserStore struct {
	db      *surrealdb.DB
	timeout time.Duration
}

// NewSurrealUserStore creates a new SurrealUserStore. Every call is bounded
// by timeout unless the context overrides it with WithQueryTimeout.
func NewSurrealUserStore(db *surrealdb.DB, timeout time.Duration) *SurrealUserStore {
	return &SurrealUserStore{db: db, timeout: timeout}
}

var _ domain.UserRepository = (*SurrealUserStore)(nil)

// FindUserByEmail queries for a single user by their email address.
func (s *SurrealUserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := getTimeoutFromContext(ctx, s.timeout)
	defer cancel()

	query := "SELECT * FROM user WHERE email = $email"
	user, err := QueryOne[domain.User](ctx, s.db, query, map[string]any{"email": email})
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

// CreateUser registers a new email/password account.
func (s *SurrealUserStore) CreateUser(ctx context.Context, name, email, password string) (*domain.User, error) {
	existing, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	ctx, cancel := getTimeoutFromContext(ctx, s.timeout)
	defer cancel()

	query := `
		CREATE user SET
			email = $email,
			name = $name,
			provider = $provider,
			password = crypto::argon2::generate($password)
	`
	params := map[string]any{
		"email":    email,
		"name":     name,
		"provider": ProviderPassword,
		"password": password,
	}

	user, err := QueryOne[domain.User](ctx, s.db, query, params)
	if isDuplicate(err) {
		return nil, domain.ErrUserAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if user == nil {
		return nil, errors.New("create user: no record returned")
	}

	slog.Info("Created user", "user_id", user.ID.String(), "email", email)
	return user, nil
}

// VerifyPassword returns the password account matching the credentials.
func (s *SurrealUserStore) VerifyPassword(ctx context.Context, email, password string) (*domain.User, error) {
	ctx, cancel := getTimeoutFromContext(ctx, s.timeout)
	defer cancel()

	query := `
		SELECT * FROM user
		WHERE email = $email
			AND provider = $provider
			AND crypto::argon2::compare(password, $password)
	`
	params := map[string]any{
		"email":    email,
		"provider": ProviderPassword,
		"password": password,
	}

	user, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// identityRow is an identity with its user fetched in place.
type identityRow struct {
	User *domain.User `json:"user"`
}

// UpsertOAuthUser resolves an identity to a user. A known identity returns
// its user; otherwise the identity is linked to the account with the same
// email, or a new account is created. The bool reports a new account.
func (s *SurrealUserStore) UpsertOAuthUser(ctx context.Context, identity domain.OAuthIdentity) (*domain.User, bool, error) {
	qctx, cancel := getTimeoutFromContext(ctx, s.timeout)
	defer cancel()

	params := map[string]any{
		"provider": identity.Provider,
		"subject":  identity.Subject,
	}
	row, err := QueryOne[identityRow](qctx, s.db,
		"SELECT user FROM identity WHERE provider = $provider AND subject = $subject LIMIT 1 FETCH user", params)
	if err != nil {
		return nil, false, fmt.Errorf("find identity: %w", err)
	}
	if row != nil && row.User != nil {
		return row.User, false, nil
	}

	created := false
	user, err := s.FindUserByEmail(ctx, identity.Email)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		query := "CREATE user SET email = $email, name = $name, provider = $provider"
		user, err = QueryOne[domain.User](qctx, s.db, query, map[string]any{
			"email":    identity.Email,
			"name":     identity.Name,
			"provider": identity.Provider,
		})
		if err != nil {
			return nil, false, fmt.Errorf("create oauth user: %w", err)
		}
		if user == nil {
			return nil, false, errors.New("create oauth user: no record returned")
		}
		created = true
	}

	params["user"] = user.ID
	if err := Execute(qctx, s.db,
		"CREATE identity SET provider = $provider, subject = $subject, user = $user", params); err != nil {
		return nil, false, fmt.Errorf("link identity: %w", err)
	}

	slog.Info("Linked identity", "user_id", user.ID.String(), "provider", identity.Provider, "new_user", created)
	return user, created, nil
}

// CreateSession issues a new opaque session token for user.
func (s *SurrealUserStore) CreateSession(ctx context.Context, user *domain.User, ttl time.Duration) (*domain.Session, error) {
	if user == nil || user.ID == nil {
		return nil, errors.New("create session: user has no id")
	}

	token, err := generateSecureToken(32) // 32 bytes = 64 hex chars
	if err != nil {
		return nil, err
	}
	expires := time.Now().UTC().Add(ttl)

	ctx, cancel := getTimeoutFromContext(ctx, s.timeout)
	defer cancel()

	// Expiry is stored as an RFC3339 string and converted in queries.
	query := "CREATE session SET token = $token, user = $user, expires = $expires"
	params := map[string]any{
		"token":   token,
		"user":    user.ID,
		"expires": expires.Format(time.RFC3339),
	}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &domain.Session{Token: token, User: user, ExpiresAt: expires}, nil
}

// Authenticate validates a session token and returns the associated user.
func (s *SurrealUserStore) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidCredentials
	}

	ctx, cancel := getTimeoutFromContext(ctx, s.timeout)
	defer cancel()

	query := `
		SELECT user FROM session
		WHERE token = $token AND type::datetime(expires) > time::now()
		LIMIT 1
		FETCH user
	`
	row, err := QueryOne[identityRow](ctx, s.db, query, map[string]any{"token": token})
	if err != nil {
		return nil, fmt.Errorf("authenticate session: %w", err)
	}
	if row == nil || row.User == nil || row.User.ID == nil {
		return nil, domain.ErrInvalidCredentials
	}
	return row.User, nil
}

// DeleteSession removes a session; unknown tokens are not an error.
func (s *SurrealUserStore) DeleteSession(ctx context.Context, token string) error {
	ctx, cancel := getTimeoutFromContext(ctx, s.timeout)
	defer cancel()

	if err := Execute(ctx, s.db, "DELETE session WHERE token = $token", map[string]any{"token": token}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// generateSecureToken creates a cryptographically secure random token.
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
