package repositories

import (
	"context"

	"github.com/roadies/roadies-backend/internal/domain/entities"
)

// SessionRepository maps a caller-supplied session id to its UserContext,
// creating one on first access. Update runs fn under a per-session lock so
// concurrent requests for the same id cannot violate the budget-narrowing
// invariant.
type SessionRepository interface {
	// Get returns a snapshot of the session context.
	Get(ctx context.Context, sessionID string) (*entities.UserContext, error)

	// Update atomically mutates the session context.
	Update(ctx context.Context, sessionID string, fn func(*entities.UserContext) error) error
}
