// Package session keeps the per-session region selection used to filter
// the shared canonical table. Only the selection is per session; the table
// itself is never copied.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for an unknown session id.
var ErrNotFound = errors.New("session not found")

// Session is one client's view state.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Regions   []string  `json:"regions"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store holds sessions in memory. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[uuid.UUID]*Session), now: time.Now}
}

// Create starts a session selecting regions.
func (s *Store) Create(regions []string) Session {
	now := s.now()
	sess := &Session{ID: uuid.New(), Regions: clone(regions), CreatedAt: now, UpdatedAt: now}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return snapshot(sess)
}

// Get returns a copy of the session.
func (s *Store) Get(id uuid.UUID) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return snapshot(sess), nil
}

// SetRegions replaces the session's region selection.
func (s *Store) SetRegions(id uuid.UUID, regions []string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sess.Regions = clone(regions)
	sess.UpdatedAt = s.now()
	return snapshot(sess), nil
}

// Delete removes the session. Deleting an unknown id is not an error.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func snapshot(sess *Session) Session {
	out := *sess
	out.Regions = clone(sess.Regions)
	return out
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
