// Package repository keeps generation sessions for the service.
package repository

import (
	"context"

	"github.com/okian/toto/internal/domain/session"
)

// Store provides access to open sessions.
type Store interface {
	// Create opens a new empty session with a fresh id. When the store is
	// full the longest idle session is evicted first.
	Create(ctx context.Context) (*session.Session, error)

	// Get returns the session and marks it as used.
	// Returns ErrSessionNotFound if the id is unknown.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Delete drops the session. Returns ErrSessionNotFound if the id is unknown.
	Delete(ctx context.Context, id string) error

	// Count returns the number of open sessions.
	Count(ctx context.Context) int
}
