package record

import (
	"context"
	"sort"
	"sync"

	id "medgate/pkg/domain"
	"medgate/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	versions map[id.RecordID][]Entry // append-only, version order
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{versions: make(map[id.RecordID][]Entry)}
}

func (s *InMemoryStore) Save(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chain := s.versions[entry.RecordID]
	for _, e := range chain {
		if e.Version == entry.Version {
			return sentinel.ErrConflict
		}
	}
	s.versions[entry.RecordID] = append(chain, *entry)
	return nil
}

func (s *InMemoryStore) FindLatest(_ context.Context, recordID id.RecordID) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chain := s.versions[recordID]
	if len(chain) == 0 {
		return nil, sentinel.ErrNotFound
	}
	latest := chain[len(chain)-1]
	return &latest, nil
}

func (s *InMemoryStore) ListVersions(_ context.Context, recordID id.RecordID) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chain := s.versions[recordID]
	if len(chain) == 0 {
		return nil, sentinel.ErrNotFound
	}
	out := make([]*Entry, 0, len(chain))
	for _, e := range chain {
		copied := e
		out = append(out, &copied)
	}
	return out, nil
}

func (s *InMemoryStore) ListByPatient(_ context.Context, patientID id.SubjectID) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Entry
	for _, chain := range s.versions {
		latest := chain[len(chain)-1]
		if latest.PatientID == patientID {
			copied := latest
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordID < out[j].RecordID })
	return out, nil
}
