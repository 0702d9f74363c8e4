// Package history loads the authoritative session list from the backend on
// startup. The backend owns persistence; this client never writes history
// anywhere else.
package history

import (
	"context"

	"github.com/mpetrov/studhelper-go/internal/logger"
	"github.com/mpetrov/studhelper-go/internal/model"
	"github.com/mpetrov/studhelper-go/internal/store"
)

// Backend is the subset of the api client the synchronizer needs.
type Backend interface {
	ChatHistory(ctx context.Context) ([]model.ChatSession, error)
}

// Synchronizer replaces the session store contents with the backend's view.
type Synchronizer struct {
	backend Backend
	store   *store.SessionStore
}

// New creates a Synchronizer.
func New(backend Backend, s *store.SessionStore) *Synchronizer {
	return &Synchronizer{backend: backend, store: s}
}

// Sync fetches the full session list and replaces the store with it. Any
// failure, including a malformed or non-array body, degrades to an empty
// collection; a bad response is never partially applied.
func (s *Synchronizer) Sync(ctx context.Context) {
	sessions, err := s.backend.ChatHistory(ctx)
	if err != nil {
		logger.L.Warn("history fetch failed; starting with empty history", "error", err)
		s.store.ReplaceAll(nil)
		return
	}
	logger.L.Debug("history loaded", "sessions", len(sessions))
	s.store.ReplaceAll(sessions)
}
