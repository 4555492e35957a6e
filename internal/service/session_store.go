package service

import (
	"sync"
	"time"

	"pdf-study-assistant/internal/domain"
)

// MemorySessionStore keeps study sessions in process memory until they expire
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.StudySession
	now      func() time.Time
}

// NewMemorySessionStore creates an empty store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*domain.StudySession),
		now:      time.Now,
	}
}

// Save stores a copy of session, replacing any session with the same ID
func (s *MemorySessionStore) Save(session *domain.StudySession) error {
	if session == nil || session.ID == "" {
		return &domain.ValidationError{Field: "id", Message: "session ID is required"}
	}
	stored := *session

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeExpiredLocked()
	s.sessions[session.ID] = &stored
	return nil
}

// Get returns a copy of the session, or domain.ErrSessionNotFound when it is
// missing or expired
func (s *MemorySessionStore) Get(id string) (*domain.StudySession, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.expired(session) {
		return nil, domain.ErrSessionNotFound
	}
	found := *session
	return &found, nil
}

// Delete removes a session
func (s *MemorySessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok || s.expired(session) {
		delete(s.sessions, id)
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Update applies fn to the stored session under the write lock and returns
// a copy of the result. Missing or expired sessions are not recreated.
func (s *MemorySessionStore) Update(id string, fn func(*domain.StudySession)) (*domain.StudySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok || s.expired(session) {
		return nil, domain.ErrSessionNotFound
	}
	fn(session)
	updated := *session
	return &updated, nil
}

func (s *MemorySessionStore) expired(session *domain.StudySession) bool {
	return !session.ExpiresAt.IsZero() && !s.now().Before(session.ExpiresAt)
}

func (s *MemorySessionStore) purgeExpiredLocked() {
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
		}
	}
}
