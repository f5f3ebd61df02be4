package session

import (
	"context"
	"sync"

	"github.com/roadies/roadies-backend/internal/domain/entities"
	"github.com/roadies/roadies-backend/internal/domain/repositories"
)

// MemoryAdapter implements the session repository in process memory. Each
// session carries its own mutex so concurrent requests for one session id
// serialize their context mutations, which keeps budget narrowing monotonic.
type MemoryAdapter struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu  sync.Mutex
	ctx entities.UserContext
}

// Ensure MemoryAdapter implements SessionRepository
var _ repositories.SessionRepository = (*MemoryAdapter)(nil)

// NewMemoryAdapter creates an empty in-memory session store.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		sessions: make(map[string]*sessionEntry),
	}
}

func (a *MemoryAdapter) entry(sessionID string) *sessionEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.sessions[sessionID]
	if !ok {
		e = &sessionEntry{}
		a.sessions[sessionID] = e
	}
	return e
}

// Get returns a snapshot of the session context, creating the session on
// first access.
func (a *MemoryAdapter) Get(_ context.Context, sessionID string) (*entities.UserContext, error) {
	e := a.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Clone(), nil
}

// Update atomically mutates the session context under the per-session lock.
func (a *MemoryAdapter) Update(_ context.Context, sessionID string, fn func(*entities.UserContext) error) error {
	e := a.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.ctx)
}
