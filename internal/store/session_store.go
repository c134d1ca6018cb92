// Package store holds the in-memory shared state: calculator sessions and
// per-form anti-spam bookkeeping. Nothing here survives a restart:
// submissions are delivered or logged, never persisted.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/stratsession/stratsession-api/internal/models"
	"github.com/stratsession/stratsession-api/pkg/errors"
	"github.com/stratsession/stratsession-api/pkg/metrics"
)

const sessionCleanupPeriod = time.Minute

// SessionStore owns all calculator sessions. It is the single mutation path
// for calculator state: handlers and services never hold raw references to a
// live session, only clones.
type SessionStore struct {
	cache *gocache.Cache
	mu    sync.Mutex
}

// NewSessionStore creates a session store. Sessions idle longer than ttl are
// evicted.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		cache: gocache.New(ttl, sessionCleanupPeriod),
	}
}

// Create mints a new session with the default configuration and
// HasInteracted=false.
func (s *SessionStore) Create() models.CalculatorSession {
	now := time.Now().UTC()
	session := models.CalculatorSession{
		ID:        uuid.NewString(),
		Config:    models.DefaultCalculatorConfig(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.SetDefault(session.ID, session)

	return session
}

// Get returns a copy of the session.
func (s *SessionStore) Get(id string) (models.CalculatorSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *SessionStore) get(id string) (models.CalculatorSession, error) {
	data, found := s.cache.Get(id)
	if !found {
		metrics.CacheMisses.WithLabelValues("calculator_session").Inc()
		return models.CalculatorSession{}, errors.NotFoundError("calculator session")
	}
	metrics.CacheHits.WithLabelValues("calculator_session").Inc()

	session, ok := data.(models.CalculatorSession)
	if !ok {
		return models.CalculatorSession{}, fmt.Errorf("invalid calculator session data for %s", id)
	}
	return cloneSession(session), nil
}

// Update applies fn to the session under the store lock and marks it as
// interacted with. fn receives a private copy; the mutated copy becomes the
// new state only when fn succeeds.
func (s *SessionStore) Update(id string, fn func(*models.CalculatorSession) error) (models.CalculatorSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.get(id)
	if err != nil {
		return models.CalculatorSession{}, err
	}

	if err := fn(&session); err != nil {
		return models.CalculatorSession{}, err
	}

	session.HasInteracted = true
	session.UpdatedAt = time.Now().UTC()
	s.cache.SetDefault(id, cloneSession(session))

	return session, nil
}

// Reset puts the session back to the default configuration with
// HasInteracted=false, as if freshly mounted. The session keeps its ID.
func (s *SessionStore) Reset(id string) (models.CalculatorSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.get(id)
	if err != nil {
		return models.CalculatorSession{}, err
	}

	session.Config = models.DefaultCalculatorConfig()
	session.HasInteracted = false
	session.UpdatedAt = time.Now().UTC()
	s.cache.SetDefault(id, cloneSession(session))

	return session, nil
}

// Count reports how many sessions are live (for the session gauge).
func (s *SessionStore) Count() int {
	return s.cache.ItemCount()
}

func cloneSession(session models.CalculatorSession) models.CalculatorSession {
	session.Config = session.Config.Clone()
	return session
}
