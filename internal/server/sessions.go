package server

import (
	"errors"
	"sync"
	"time"

	"github.com/desertthunder/igreview/internal/services"
	"github.com/desertthunder/igreview/internal/shared"
)

// SessionCookie is the cookie carrying the opaque session ID.
const SessionCookie = "igreview_session"

const defaultSessionTTL = 12 * time.Hour

var ErrSessionNotFound = errors.New("session not found")

// Session holds the per-browser state: the access token and profile of the
// connected account, and the one-time OAuth state during a login flow.
// Created empty on first visit and populated by the OAuth callback.
type Session struct {
	ID          string
	AccessToken string
	Profile     *services.Profile
	CSRFState   string
	CreatedAt   time.Time
	LastSeen    time.Time
}

// Connected reports whether the session holds both an access token and a
// profile. Every authenticated operation requires both.
func (s Session) Connected() bool {
	return s.AccessToken != "" && s.Profile != nil
}

// SessionStore is a keyed in-memory store mapping session IDs to sessions.
// Reads return snapshot copies; all mutation goes through Update under the
// store lock.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	maxIdle  time.Duration
}

// NewSessionStore creates a store that drops sessions idle for longer than
// maxIdle (default 12h on zero or negative values).
func NewSessionStore(maxIdle time.Duration) *SessionStore {
	if maxIdle <= 0 {
		maxIdle = defaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		maxIdle:  maxIdle,
	}
}

// Create registers a new empty session and returns a snapshot of it.
func (s *SessionStore) Create() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	sess := &Session{
		ID:        shared.GenerateID(),
		CreatedAt: now,
		LastSeen:  now,
	}
	s.sessions[sess.ID] = sess

	return snapshot(sess)
}

// Get returns a snapshot of the session with the given ID and bumps its
// idle timer.
func (s *SessionStore) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	sess.LastSeen = time.Now()

	return snapshot(sess), true
}

// Update applies fn to the stored session under the store lock.
func (s *SessionStore) Update(id string, fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	fn(sess)
	sess.LastSeen = time.Now()
	return nil
}

// Sweep removes sessions idle beyond the store's TTL, returning how many
// were dropped.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.maxIdle)
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}

	return removed
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// snapshot copies a session, including the profile, so callers never share
// memory with the store.
func snapshot(sess *Session) Session {
	copied := *sess
	if sess.Profile != nil {
		profile := *sess.Profile
		copied.Profile = &profile
	}
	return copied
}
