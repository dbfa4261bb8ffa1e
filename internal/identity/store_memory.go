package identity

import (
	"context"
	"sync"
	"time"

	id "medgate/pkg/domain"
	"medgate/pkg/platform/sentinel"
)

// InMemoryStore keeps the development and test configuration lightweight. It
// intentionally favors clarity over performance.
type InMemoryStore struct {
	mu       sync.RWMutex
	subjects map[id.SubjectID]Subject
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{subjects: make(map[id.SubjectID]Subject)}
}

func (s *InMemoryStore) Save(_ context.Context, subject *Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subjects[subject.ID]; ok {
		return sentinel.ErrConflict
	}
	s.subjects[subject.ID] = *subject
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, subjectID id.SubjectID) (*Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if subject, ok := s.subjects[subjectID]; ok {
		copied := subject
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, subjectID id.SubjectID, status id.SubjectStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	subject, ok := s.subjects[subjectID]
	if !ok {
		return sentinel.ErrNotFound
	}
	subject.Status = status
	subject.StatusChangedAt = at
	s.subjects[subjectID] = subject
	return nil
}
