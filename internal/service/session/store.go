package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doyeonstory/backend/internal/model/session"
)

var ErrSessionNotFound = errors.New("session not found")

// DefaultTTL bounds how long an idle session is kept.
const DefaultTTL = 2 * time.Hour

// Store keeps live sessions keyed by id.
type Store interface {
	Create(ctx context.Context) (session.Session, error)
	Get(ctx context.Context, id string) (session.Session, error)
	Update(ctx context.Context, id string, fn func(*session.Session) error) (session.Session, error)
	Delete(ctx context.Context, id string) error
}

type entry struct {
	mu   sync.Mutex
	sess session.Session
}

// MemoryStore implements Store in process memory. Actions on one session are
// serialised; different sessions never block each other.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store whose sessions expire after ttl of inactivity.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create provisions a session parked on the home view.
func (s *MemoryStore) Create(_ context.Context) (session.Session, error) {
	sess := session.New(uuid.NewString(), s.now())

	s.mu.Lock()
	s.entries[sess.ID] = &entry{sess: sess}
	s.mu.Unlock()

	return sess.Snapshot(), nil
}

// Get returns a copy of the session.
func (s *MemoryStore) Get(_ context.Context, id string) (session.Session, error) {
	e, err := s.lookup(id)
	if err != nil {
		return session.Session{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Snapshot(), nil
}

// Update runs fn against a working copy and commits it only when fn succeeds.
// On failure the stored session is left untouched and the unchanged copy is returned.
func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*session.Session) error) (session.Session, error) {
	e, err := s.lookup(id)
	if err != nil {
		return session.Session{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return e.sess.Snapshot(), err
	}

	working := e.sess.Snapshot()
	if err := fn(&working); err != nil {
		return e.sess.Snapshot(), err
	}

	working.ID = e.sess.ID
	working.CreatedAt = e.sess.CreatedAt
	working.UpdatedAt = s.now()
	e.sess = working
	return e.sess.Snapshot(), nil
}

// Delete ends a session.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.entries, id)
	return nil
}

// Len reports the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	expired := s.now().Sub(e.sess.UpdatedAt) > s.ttl
	e.mu.Unlock()
	if !expired {
		return e, nil
	}

	s.mu.Lock()
	if current, ok := s.entries[id]; ok && current == e {
		delete(s.entries, id)
	}
	s.mu.Unlock()
	return nil, ErrSessionNotFound
}
