package database

import (
	"context"
	"testing"

	"github.com/nfrund/propmgr/internal/testutils"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go"
)

// setupTestDB creates a test database connection with the schema applied and
// returns a cleanup function. Tests using it are skipped without .env.test.
func setupTestDB(t *testing.T) (*surrealdb.DB, func()) {
	t.Helper()

	cfg := testutils.ConfigForTests(t)

	ctx := context.Background()
	db, err := NewDB(ctx, cfg)
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, Migrate(ctx, db))

	return db, func() {
		db.Close(context.Background())
	}
}
