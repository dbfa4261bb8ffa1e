package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func entryFor(requester, patient, record string, outcome id.Outcome, reason id.ReasonCode, ts time.Time) *Entry {
	return &Entry{
		Timestamp:   ts,
		RequesterID: id.SubjectID(requester),
		PatientID:   id.SubjectID(patient),
		RecordID:    id.RecordID(record),
		Action:      id.ActionRead,
		Outcome:     outcome,
		Reason:      reason,
	}
}

func TestAppendAssignsGaplessSequence(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemoryStore(), discard)
	ts := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		seq, err := svc.Append(ctx, entryFor("c1", "p1", "r1", id.OutcomeDenied, id.ReasonConsentMissing, ts))
		require.NoError(t, err)
		assert.Equal(t, uint64(i), seq)
	}
}

func TestConcurrentAppendsStayGapless(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemoryStore(), discard)
	ts := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	const writers = 64
	seqs := make([]uint64, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seq, err := svc.Append(ctx, entryFor("c1", "p1", "r1", id.OutcomeGranted, id.ReasonConsentSatisfied, ts))
			require.NoError(t, err)
			seqs[i] = seq
		}(i)
	}
	wg.Wait()

	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	for i, seq := range seqs {
		assert.Equal(t, uint64(i+1), seq, "no gaps, no duplicates")
	}
}

func TestQueryFiltering(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemoryStore(), discard)
	t0 := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.Append(ctx, entryFor("c1", "p1", "r1", id.OutcomeDenied, id.ReasonConsentMissing, t0))
	require.NoError(t, err)
	_, err = svc.Append(ctx, entryFor("c2", "p1", "r1", id.OutcomeGranted, id.ReasonConsentSatisfied, t0.Add(time.Minute)))
	require.NoError(t, err)
	_, err = svc.Append(ctx, entryFor("c1", "p2", "r2", id.OutcomeGranted, id.ReasonConsentSatisfied, t0.Add(2*time.Minute)))
	require.NoError(t, err)

	t.Run("by requester", func(t *testing.T) {
		entries, err := svc.Query(ctx, Filter{RequesterID: "c1"})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, uint64(1), entries[0].Seq)
		assert.Equal(t, uint64(3), entries[1].Seq)
	})

	t.Run("by patient and time range", func(t *testing.T) {
		from := t0.Add(30 * time.Second)
		entries, err := svc.Query(ctx, Filter{PatientID: "p1", From: &from})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, id.SubjectID("c2"), entries[0].RequesterID)
	})

	t.Run("keyset pagination restarts after a sequence number", func(t *testing.T) {
		page1, err := svc.Query(ctx, Filter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, page1, 2)

		page2, err := svc.Query(ctx, Filter{AfterSeq: page1[1].Seq, Limit: 2})
		require.NoError(t, err)
		require.Len(t, page2, 1)
		assert.Equal(t, uint64(3), page2[0].Seq)
	})
}

type failingStore struct{}

func (failingStore) Append(context.Context, *Entry) (uint64, error) {
	return 0, errors.New("disk gone")
}

func (failingStore) Query(context.Context, Filter) ([]*Entry, error) {
	return nil, errors.New("disk gone")
}

func TestAppendFailureIsFatal(t *testing.T) {
	svc := NewService(failingStore{}, discard)
	_, err := svc.Append(context.Background(), entryFor("c1", "p1", "r1", id.OutcomeGranted, id.ReasonConsentSatisfied, time.Now()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAuditWriteFailed))
}
