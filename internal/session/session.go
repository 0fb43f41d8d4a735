// Package session holds the in-memory analysis sessions served by the HTTP
// shell. One uploaded statement produces one session; sessions are never
// shared, never mutated after analysis, and vanish on restart — the system
// keeps no persistent state.
package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/subscope/internal/domain"
)

// Session is the result of one statement analysis run. The subscription
// sequence is read-only after construction; a new upload starts a fresh
// session rather than updating an old one.
type Session struct {
	ID            string                `json:"id"`
	Filename      string                `json:"filename"`
	CreatedAt     time.Time             `json:"created_at"`
	RecordCount   int                   `json:"record_count"`
	Subscriptions []domain.Subscription `json:"subscriptions"`
}

// New creates a session for an analyzed statement.
func New(filename string, recordCount int, subs []domain.Subscription) *Session {
	return &Session{
		ID:            uuid.NewString(),
		Filename:      filename,
		CreatedAt:     time.Now(),
		RecordCount:   recordCount,
		Subscriptions: subs,
	}
}

// Store is an in-memory session store, safe for concurrent use. Reads hand
// out copies so callers cannot mutate stored sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Save stores a session by ID.
func (s *Store) Save(sess *Session) error {
	if sess.ID == "" {
		return fmt.Errorf("session ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := *sess
	s.sessions[sess.ID] = &c
	return nil
}

// Get retrieves a session by ID.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}

	c := *sess
	return &c, nil
}

// List returns all sessions, newest first.
func (s *Store) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		c := *sess
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}
