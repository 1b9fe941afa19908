package testutils

import (
	"fmt"
	"time"

	"github.com/nfrund/propmgr/internal/domain"
)

// NewTestUser returns a user with a record id, ready to hand to fakes.
func NewTestUser(name, email string) *domain.User {
	return &domain.User{
		ID:       NewTestRecordID("user"),
		Email:    email,
		Name:     &name,
		Provider: "password",
	}
}

// UniqueEmail returns an address that won't collide across test runs.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
