// Package session holds per-caller analysis state. Each session owns the
// result of at most one processed upload; there is no shared global state, so
// concurrent callers never observe each other's data.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/spendlens/internal/pipeline"
	"github.com/dvloznov/spendlens/internal/table"
)

// Session is one caller's analysis workspace.
type Session struct {
	id      string
	created time.Time

	mu     sync.RWMutex
	result *pipeline.Result
}

// New creates an empty session.
func New() *Session {
	return &Session{
		id:      uuid.New().String(),
		created: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Created returns the session creation time.
func (s *Session) Created() time.Time {
	return s.created
}

// Load processes an upload and stores the outcome, replacing any previous
// one. The result is stored even on failure so the caller can inspect the
// error later.
func (s *Session) Load(ctx context.Context, content []byte, filename string) *pipeline.Result {
	result := pipeline.Process(ctx, content, filename)

	s.mu.Lock()
	s.result = result
	s.mu.Unlock()

	return result
}

// Result returns the last processing outcome, or nil when nothing has been
// loaded yet.
func (s *Session) Result() *pipeline.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Table returns the categorized transaction table from the last successful
// load, or nil.
func (s *Session) Table() *table.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil || !s.result.Success {
		return nil
	}
	return s.result.Table
}

// Clear drops the loaded result.
func (s *Session) Clear() {
	s.mu.Lock()
	s.result = nil
	s.mu.Unlock()
}

// Store keeps live sessions by id for the HTTP surface.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session and returns it.
func (st *Store) Create() *Session {
	s := New()
	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()
	return s
}

// Get looks up a session by id.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete removes a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
