package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps the trail in an append-only slice. The slice index is
// the sequence number minus one, which makes gaplessness structural.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, entry *Entry) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := uint64(len(s.entries)) + 1
	copied := *entry
	copied.Seq = seq
	s.entries = append(s.entries, copied)
	return seq, nil
}

func (s *InMemoryStore) Query(_ context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Entry
	for i := range s.entries {
		e := s.entries[i]
		if e.Seq <= filter.AfterSeq || !filter.Match(&e) {
			continue
		}
		copied := e
		out = append(out, &copied)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}
