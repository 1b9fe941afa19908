package database

import (
	"context"
	"testing"
	"time"

	"github.com/nfrund/propmgr/internal/domain"
	"github.com/nfrund/propmgr/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go"
)

func cleanupEmail(t *testing.T, db *surrealdb.DB, email string) {
	t.Cleanup(func() {
		ctx := context.Background()
		_ = Execute(ctx, db, "DELETE identity WHERE user.email = $email", map[string]any{"email": email})
		_ = Execute(ctx, db, "DELETE session WHERE user.email = $email", map[string]any{"email": email})
		_ = Execute(ctx, db, "DELETE user WHERE email = $email", map[string]any{"email": email})
	})
}

func TestSurrealUserStore_PasswordFlow(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSurrealUserStore(db, 10*time.Second)
	ctx := context.Background()
	email := testutils.UniqueEmail("store")
	cleanupEmail(t, db, email)

	user, err := store.CreateUser(ctx, "Store User", email, "S3cureP@ssw0rd!")
	require.NoError(t, err)
	require.NotNil(t, user.ID)
	assert.Equal(t, email, user.Email)
	assert.Equal(t, ProviderPassword, user.Provider)

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := store.CreateUser(ctx, "Someone Else", email, "another")
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("correct password verifies", func(t *testing.T) {
		got, err := store.VerifyPassword(ctx, email, "S3cureP@ssw0rd!")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password fails", func(t *testing.T) {
		_, err := store.VerifyPassword(ctx, email, "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("session round trip", func(t *testing.T) {
		sess, err := store.CreateSession(ctx, user, time.Hour)
		require.NoError(t, err)
		assert.Len(t, sess.Token, 64)

		got, err := store.Authenticate(ctx, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, email, got.Email)

		require.NoError(t, store.DeleteSession(ctx, sess.Token))
		_, err = store.Authenticate(ctx, sess.Token)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("expired session is rejected", func(t *testing.T) {
		sess, err := store.CreateSession(ctx, user, -time.Minute)
		require.NoError(t, err)

		_, err = store.Authenticate(ctx, sess.Token)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestSurrealUserStore_UpsertOAuthUser(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSurrealUserStore(db, 10*time.Second)
	ctx := context.Background()
	email := testutils.UniqueEmail("oauth")
	cleanupEmail(t, db, email)

	identity := domain.OAuthIdentity{Provider: "google", Subject: email + "-sub", Email: email, Name: "OAuth User"}

	first, created, err := store.UpsertOAuthUser(ctx, identity)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, first.ID)

	second, created, err := store.UpsertOAuthUser(ctx, identity)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	// OAuth accounts have no password.
	_, err = store.VerifyPassword(ctx, email, "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
