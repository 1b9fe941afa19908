package database

import (
	"context"
	"fmt"
	"time"

	"github.com/nfrund/propmgr/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// SurrealEventStore writes audit records to the auth_event table.
type SurrealEventStore struct {
	db      *surrealdb.DB
	timeout time.Duration
}

func NewSurrealEventStore(db *surrealdb.DB, timeout time.Duration) *SurrealEventStore {
	return &SurrealEventStore{db: db, timeout: timeout}
}

var _ domain.AuthEventRepository = (*SurrealEventStore)(nil)

// RecordAuthEvent stores one audit record.
func (s *SurrealEventStore) RecordAuthEvent(ctx context.Context, event domain.AuthEvent) error {
	ctx, cancel := getTimeoutFromContext(ctx, s.timeout)
	defer cancel()

	query := `
		CREATE auth_event SET
			user_id = $user_id,
			email = $email,
			method = $method,
			ip = $ip,
			created_at = $created_at
	`
	params := map[string]any{
		"user_id":    event.UserID,
		"email":      event.Email,
		"method":     event.Method,
		"ip":         event.IP,
		"created_at": event.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("record auth event: %w", err)
	}
	return nil
}
