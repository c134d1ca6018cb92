package store

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	interactionKeyPrefix = "form:interaction:"
	inflightKeyPrefix    = "form:inflight:"
	formCleanupPeriod    = time.Minute
)

// FormStore tracks per-form anti-spam state: the timestamp of the first
// field-change event, and whether a submission for the form is currently in
// flight (at most one per form instance).
type FormStore struct {
	cache *gocache.Cache
	mu    sync.Mutex
}

// NewFormStore creates a form store. Entries expire with the form token TTL.
func NewFormStore(ttl time.Duration) *FormStore {
	return &FormStore{
		cache: gocache.New(ttl, formCleanupPeriod),
	}
}

// RecordFirstInteraction stores the first interaction time for a form.
// Subsequent calls are no-ops: first write wins.
func (s *FormStore) RecordFirstInteraction(formID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := interactionKeyPrefix + formID
	if _, found := s.cache.Get(key); found {
		return
	}
	s.cache.SetDefault(key, at)
}

// FirstInteraction returns the recorded first interaction time, if any.
func (s *FormStore) FirstInteraction(formID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, found := s.cache.Get(interactionKeyPrefix + formID)
	if !found {
		return time.Time{}, false
	}
	at, ok := data.(time.Time)
	return at, ok
}

// BeginSubmission marks a submission for the form as in flight. Returns
// false when one is already running, in which case the caller must not start
// another.
func (s *FormStore) BeginSubmission(formID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := inflightKeyPrefix + formID
	if _, found := s.cache.Get(key); found {
		return false
	}
	s.cache.SetDefault(key, struct{}{})
	return true
}

// EndSubmission clears the in-flight mark.
func (s *FormStore) EndSubmission(formID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(inflightKeyPrefix + formID)
}

// ClearInteraction drops the recorded interaction timestamp. Called on the
// explicit "submit another request" reset so the next fill starts clean.
func (s *FormStore) ClearInteraction(formID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(interactionKeyPrefix + formID)
}
