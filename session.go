package lingotray

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionID is an opaque unique token identifying one logical translation
// attempt.
type SessionID string

// DefaultSurface is the surface used when a Request names none. A surface is
// one logical translation output (e.g. one UI pane); each surface has at
// most one current session.
const DefaultSurface = "main"

// Session represents one logical translation attempt triggered by one user
// action. A session becomes stale the instant a newer one is begun for the
// same surface; stale sessions are superseded, never destroyed.
type Session struct {
	ID        SessionID
	Surface   string
	Gen       uint64 // monotonic generation counter, newer sessions have higher values
	CreatedAt time.Time
}

// SessionCoordinator issues session ids and fences overlapping translation
// requests: only events tagged with the current session of a surface are
// forwarded, late events from superseded sessions are swallowed.
type SessionCoordinator struct {
	mu      sync.Mutex
	gen     uint64
	current map[string]SessionID
}

// NewSessionCoordinator creates an empty coordinator.
func NewSessionCoordinator() *SessionCoordinator {
	return &SessionCoordinator{current: make(map[string]SessionID)}
}

// Begin allocates a new session and atomically marks it as the current
// session for its surface, superseding any prior one.
func (c *SessionCoordinator) Begin(surface string) Session {
	if surface == "" {
		surface = DefaultSurface
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	sess := Session{
		ID:        SessionID(uuid.NewString()),
		Surface:   surface,
		Gen:       c.gen,
		CreatedAt: time.Now(),
	}
	c.current[surface] = sess.ID
	return sess
}

// IsCurrent reports whether id is the current session for surface.
func (c *SessionCoordinator) IsCurrent(surface string, id SessionID) bool {
	if surface == "" {
		surface = DefaultSurface
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current[surface] == id
}

// End clears the current-session pointer for surface if id still owns it.
// Called by the engine when a stream terminates so the surface returns to
// idle; a superseded session's End is a no-op.
func (c *SessionCoordinator) End(surface string, id SessionID) {
	if surface == "" {
		surface = DefaultSurface
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current[surface] == id {
		delete(c.current, surface)
	}
}
