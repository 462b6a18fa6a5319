// Package session holds the admin flag that gates every mutating action.
//
// The flag is derived from a signed capability token rather than stored as
// a bare boolean. It is still a client-side gate: the backend does not check
// it, so it is not a security boundary.
package session

import (
	"context"
	"log/slog"
	"sync"

	"portfolio-admin/internal/auth"
)

type Listener func(isAdmin bool)

type Store struct {
	auth      *auth.Authenticator
	persister Persister

	mu        sync.RWMutex
	token     string
	isAdmin   bool
	nextID    int
	listeners map[int]Listener
}

// NewStore restores the session from p. A stored token that no longer
// verifies is discarded.
func NewStore(ctx context.Context, a *auth.Authenticator, p Persister) *Store {
	s := &Store{
		auth:      a,
		persister: p,
		listeners: make(map[int]Listener),
	}

	token, err := p.Load(ctx)
	if err != nil {
		slog.Warn("Failed to restore session", "error", err)
		return s
	}
	if token == "" {
		return s
	}
	if !a.Verify(token) {
		if err := p.Clear(ctx); err != nil {
			slog.Warn("Failed to clear stale session", "error", err)
		}
		return s
	}

	s.token = token
	s.isAdmin = true
	return s
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAdmin
}

// Login returns false and leaves the current state untouched on a mismatch.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	token, err := s.auth.Issue(username, password)
	if err != nil {
		slog.Info("Admin login rejected", "username", username)
		return false
	}

	if err := s.persister.Save(ctx, token); err != nil {
		slog.Warn("Failed to persist session", "error", err)
	}

	s.set(token, true)
	slog.Info("Admin logged in", "username", username)
	return true
}

// Logout always ends with IsAdmin() == false.
func (s *Store) Logout(ctx context.Context) {
	if err := s.persister.Clear(ctx); err != nil {
		slog.Warn("Failed to clear persisted session", "error", err)
	}
	s.set("", false)
}

// Token is the opaque capability token, empty when not logged in.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subscribe registers fn for every state change and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) set(token string, isAdmin bool) {
	s.mu.Lock()
	changed := s.isAdmin != isAdmin
	s.token = token
	s.isAdmin = isAdmin
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(isAdmin)
	}
}
