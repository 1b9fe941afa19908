package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/surrealdb/surrealdb.go"
)

// schema defines the tables and indexes the stores rely on. Every statement
// is idempotent so Migrate can run on each start.
var schema = []string{
	`DEFINE TABLE IF NOT EXISTS user SCHEMALESS`,
	`DEFINE INDEX IF NOT EXISTS user_email ON user FIELDS email UNIQUE`,
	`DEFINE TABLE IF NOT EXISTS session SCHEMALESS`,
	`DEFINE INDEX IF NOT EXISTS session_token ON session FIELDS token UNIQUE`,
	`DEFINE TABLE IF NOT EXISTS identity SCHEMALESS`,
	`DEFINE INDEX IF NOT EXISTS identity_subject ON identity FIELDS provider, subject UNIQUE`,
	`DEFINE TABLE IF NOT EXISTS auth_event SCHEMALESS`,
}

// Migrate applies the schema.
func Migrate(ctx context.Context, db *surrealdb.DB) error {
	for _, stmt := range schema {
		if err := Execute(ctx, db, stmt, nil); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	slog.Debug("Database schema applied", "statements", len(schema))
	return nil
}
