// Package store holds the canonical list of chat sessions and the
// active-session pointer. It is the only shared mutable state in the client:
// every component goes through its operations, and every mutation notifies
// subscribers so the UI can re-read a snapshot.
package store

import (
	"sync"

	"github.com/mpetrov/studhelper-go/internal/logger"
	"github.com/mpetrov/studhelper-go/internal/model"
)

// SessionStore keeps sessions in most-recent-first order.
type SessionStore struct {
	mu        sync.RWMutex
	sessions  []model.ChatSession
	currentID string

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSubID   int
}

// New creates an empty SessionStore with no active session.
func New() *SessionStore {
	return &SessionStore{
		subscribers: make(map[int]func()),
	}
}

// ReplaceAll overwrites the entire collection. The active pointer is kept
// unless its session no longer exists, in which case it is cleared.
func (s *SessionStore) ReplaceAll(sessions []model.ChatSession) {
	s.mu.Lock()
	s.sessions = make([]model.ChatSession, len(sessions))
	copy(s.sessions, sessions)
	if s.currentID != "" && s.indexOf(s.currentID) == -1 {
		s.currentID = ""
	}
	s.mu.Unlock()
	s.publish()
}

// Upsert inserts a session at the front of the collection. It is a no-op if
// a session with the same id is already present.
func (s *SessionStore) Upsert(session model.ChatSession) {
	s.mu.Lock()
	if s.indexOf(session.ID) != -1 {
		s.mu.Unlock()
		return
	}
	s.sessions = append([]model.ChatSession{session}, s.sessions...)
	s.mu.Unlock()
	s.publish()
}

// AppendMessage appends a message to the session matching sessionID. Only the
// target session is touched; every other session keeps its backing array. An
// unknown id is a silent no-op since callers always supply a known id.
func (s *SessionStore) AppendMessage(sessionID string, msg model.ChatMessage) {
	s.mu.Lock()
	i := s.indexOf(sessionID)
	if i == -1 {
		s.mu.Unlock()
		logger.L.Debug("append to unknown session ignored", "session_id", sessionID)
		return
	}
	old := s.sessions[i].Messages
	next := make([]model.ChatMessage, len(old), len(old)+1)
	copy(next, old)
	s.sessions[i].Messages = append(next, msg)
	s.mu.Unlock()
	s.publish()
}

// Select makes the session with the given id active. The id is not required
// to exist; Current reports nil until a matching session appears.
func (s *SessionStore) Select(id string) {
	s.mu.Lock()
	s.currentID = id
	s.mu.Unlock()
	s.publish()
}

// Clear deactivates the current session ("new chat" state).
func (s *SessionStore) Clear() {
	s.mu.Lock()
	s.currentID = ""
	s.mu.Unlock()
	s.publish()
}

// Current returns a copy of the active session, or nil when no session is
// active or the active id matches nothing.
func (s *SessionStore) Current() *model.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentID == "" {
		return nil
	}
	i := s.indexOf(s.currentID)
	if i == -1 {
		return nil
	}
	session := s.sessions[i]
	return &session
}

// CurrentID returns the active session id, or "" in the new-chat state.
func (s *SessionStore) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

// Sessions returns a snapshot copy of the collection.
func (s *SessionStore) Sessions() []model.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ChatSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Len reports the number of sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Subscribe registers fn to run after every mutation. The returned cancel
// function removes the subscription.
func (s *SessionStore) Subscribe(fn func()) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

// publish runs outside the store lock so subscribers may re-read snapshots.
func (s *SessionStore) publish() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// indexOf is called with s.mu held.
func (s *SessionStore) indexOf(id string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}
