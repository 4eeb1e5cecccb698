// Package session provides the in-memory session store and the per-user lock
// manager that serializes a user's operations across the remote dialogue
// model call.
package session

import (
	"sync"
	"time"

	"github.com/parley-labs/parley/pkg/domain"
)

// DefaultTimeout is the inactivity window after which sessions expire.
const DefaultTimeout = time.Hour

// Store is an in-memory ports.SessionStore with time-based expiry.
//
// All operations serialize through one mutex around the whole map. They are
// fast (no I/O), so coarse locking keeps nested remediation fields from ever
// being observed half-written.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	timeout  time.Duration
	now      func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithTimeout sets the inactivity expiry window.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithClock overrides the time source. Tests use this to expire sessions
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store with the default one-hour timeout.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*domain.Session),
		timeout:  DefaultTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a fresh session at step 1, replacing any existing session
// for the user. Starting over always discards history.
func (s *Store) Create(userID string) *domain.Session {
	sess := domain.NewSession(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
	return sess.Clone()
}

// Get returns a copy of the user's session, or domain.ErrSessionNotFound if
// absent or expired. Expired entries are evicted on read; the read itself
// does not refresh the activity timestamp.
func (s *Store) Get(userID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.expired(sess) {
		delete(s.sessions, userID)
		return nil, domain.ErrSessionNotFound
	}
	return sess.Clone(), nil
}

// Save persists the full session state, refreshing its activity timestamp.
// Follows the same expiry rule as Get.
func (s *Store) Save(userID string, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.sessions[userID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if s.expired(existing) {
		delete(s.sessions, userID)
		return domain.ErrSessionNotFound
	}

	cp := session.Clone()
	cp.LastActivity = s.now().UTC()
	s.sessions[userID] = cp
	return nil
}

// Delete removes the session. Reports whether anything was removed.
func (s *Store) Delete(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[userID]; !ok {
		return false
	}
	delete(s.sessions, userID)
	return true
}

// Sweep removes every expired session and returns the count. Intended for
// periodic invocation by the caller; nothing schedules it automatically.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, userID)
			removed++
		}
	}
	return removed
}

// Snapshot returns deep copies of all live sessions for diagnostics. The
// result shares no mutable state with the store.
func (s *Store) Snapshot() map[string]*domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*domain.Session, len(s.sessions))
	for userID, sess := range s.sessions {
		out[userID] = sess.Clone()
	}
	return out
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) expired(sess *domain.Session) bool {
	return s.now().UTC().Sub(sess.LastActivity) > s.timeout
}
