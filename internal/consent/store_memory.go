package consent

import (
	"context"
	"sync"
	"time"

	id "medgate/pkg/domain"
	"medgate/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	grants []*Grant
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Save(_ context.Context, grant *Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *grant
	s.grants = append(s.grants, &copied)
	return nil
}

func (s *InMemoryStore) ListByPair(_ context.Context, patientID, granteeID id.SubjectID) ([]*Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Grant
	for _, g := range s.grants {
		if g.PatientID == patientID && g.GranteeID == granteeID {
			copied := *g
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListByPatient(_ context.Context, patientID id.SubjectID) ([]*Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Grant
	for _, g := range s.grants {
		if g.PatientID == patientID {
			copied := *g
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *InMemoryStore) SetRevoked(_ context.Context, grantID string, revokedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.grants {
		if g.ID == grantID {
			at := revokedAt
			g.RevokedAt = &at
			return nil
		}
	}
	return sentinel.ErrNotFound
}
