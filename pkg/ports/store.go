package ports

import "github.com/parley-labs/parley/pkg/domain"

// SessionStore persists per-user session state. Implementations must be safe
// for concurrent use and must never hand out state that shares mutable
// memory with their internal copy.
type SessionStore interface {
	// Create starts a fresh session at step 1, unconditionally replacing any
	// existing session for the user (its history is discarded).
	Create(userID string) *domain.Session

	// Get returns the user's session, or domain.ErrSessionNotFound if absent
	// or inactive beyond the configured timeout (lazily evicted on read).
	Get(userID string) (*domain.Session, error)

	// Save persists the full session state and refreshes its activity
	// timestamp. Returns domain.ErrSessionNotFound under the same expiry
	// rule as Get.
	Save(userID string, session *domain.Session) error

	// Delete removes the session. Idempotent; reports whether anything was
	// removed.
	Delete(userID string) bool

	// Sweep removes all expired sessions and returns how many were removed.
	// No automatic scheduler is attached; the caller decides cadence.
	Sweep() int

	// Snapshot returns an independent deep copy of every live session, for
	// diagnostics only.
	Snapshot() map[string]*domain.Session
}
