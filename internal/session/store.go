package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/models"
)

// CookieName is the cookie carrying the session ID
const CookieName = "wc_session"

type entry struct {
	selection models.Selection
	lastSeen  time.Time
}

// Store keeps the dropdown selection of each browser session.
// Sessions idle for longer than the TTL are dropped on the next access.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*entry
	now      func() time.Time
}

// NewStore creates a session store; ttl <= 0 disables expiry
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// NewID returns a fresh session ID
func (s *Store) NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an ID issued by NewID
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the selection for id, or the zero selection for an unknown session
func (s *Store) Get(id string) models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	e, ok := s.sessions[id]
	if !ok {
		return models.Selection{}
	}
	e.lastSeen = s.now()
	return e.selection
}

// Update applies fn to the session's selection under the store lock and
// stores the result. If fn fails the session is left unchanged.
func (s *Store) Update(id string, fn func(models.Selection) (models.Selection, error)) (models.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{}
	}

	next, err := fn(e.selection)
	if err != nil {
		return e.selection, err
	}

	e.selection = next
	e.lastSeen = s.now()
	s.sessions[id] = e
	return next, nil
}

// Delete forgets a session
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.sessions)
}

func (s *Store) sweepLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
