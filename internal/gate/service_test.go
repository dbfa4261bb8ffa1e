package gate

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medgate/internal/audit"
	"medgate/internal/consent"
	"medgate/internal/gate/adapters"
	"medgate/internal/identity"
	"medgate/internal/record"
	id "medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/requestcontext"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fixture wires real in-memory components behind the gate so the tests cover
// the full decision path, audit append included.
type fixture struct {
	gate     *Service
	subjects *identity.Service
	ledger   *consent.Service
	index    *record.Service
	trail    *audit.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	subjects := identity.NewService(identity.NewInMemoryStore(), discard)
	ledger := consent.NewService(consent.NewInMemoryStore(), subjects, consent.NewSerialTx(), discard)
	index := record.NewService(record.NewInMemoryStore(), subjects, discard)
	trail := audit.NewService(audit.NewInMemoryStore(), discard)

	g := NewService(subjects, ledger, adapters.NewRecordAdapter(index), trail, NewSerialTx(), discard, nil)

	ctx := context.Background()
	for _, s := range []struct {
		sid  id.SubjectID
		role id.Role
	}{
		{"alice", id.RolePatient},
		{"bob", id.RolePatient},
		{"carol", id.RoleClinician},
		{"root", id.RoleAdministrator},
	} {
		_, err := subjects.Register(ctx, s.sid, s.role)
		require.NoError(t, err)
	}
	_, err := index.Index(ctx, "rec-alice-1", "alice", "imaging", "cas://sha256/aaa")
	require.NoError(t, err)
	_, err = index.Index(ctx, "rec-alice-2", "alice", "labs", "cas://sha256/bbb")
	require.NoError(t, err)

	return &fixture{gate: g, subjects: subjects, ledger: ledger, index: index, trail: trail}
}

func (f *fixture) authorize(t *testing.T, requester id.SubjectID, recordID id.RecordID) *Decision {
	t.Helper()
	d, err := f.gate.Authorize(context.Background(), Request{
		RequesterID: requester,
		RecordID:    recordID,
		Action:      id.ActionRead,
	})
	require.NoError(t, err)
	return d
}

func TestAuthorizeSelfAccess(t *testing.T) {
	f := newFixture(t)

	// Self-access grants regardless of any consent state.
	d := f.authorize(t, "alice", "rec-alice-1")
	assert.Equal(t, id.OutcomeGranted, d.Outcome)
	assert.Equal(t, id.ReasonSelfAccess, d.Reason)
	assert.Equal(t, "cas://sha256/aaa", d.StoragePointer)
	assert.Equal(t, id.SubjectID("alice"), d.PatientID)
	assert.NotZero(t, d.AuditSeq)
}

func TestAuthorizeStoragePointerFollowsOutcome(t *testing.T) {
	f := newFixture(t)

	// Every granted action carries the pointer; write and export need to
	// reach the record bytes just like read does.
	for _, action := range []id.Action{id.ActionRead, id.ActionWrite, id.ActionExport} {
		d, err := f.gate.Authorize(context.Background(), Request{
			RequesterID: "alice",
			RecordID:    "rec-alice-1",
			Action:      action,
		})
		require.NoError(t, err)
		require.Equal(t, id.OutcomeGranted, d.Outcome)
		assert.Equal(t, "cas://sha256/aaa", d.StoragePointer, action)
	}

	d, err := f.gate.Authorize(context.Background(), Request{
		RequesterID: "carol",
		RecordID:    "rec-alice-1",
		Action:      id.ActionExport,
	})
	require.NoError(t, err)
	require.Equal(t, id.OutcomeDenied, d.Outcome)
	assert.Empty(t, d.StoragePointer)
}

func TestAuthorizeDenialChain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("unknown requester", func(t *testing.T) {
		d := f.authorize(t, "ghost", "rec-alice-1")
		assert.Equal(t, id.OutcomeDenied, d.Outcome)
		assert.Equal(t, id.ReasonRequesterUnknown, d.Reason)
		assert.Empty(t, d.StoragePointer)
	})

	t.Run("suspended requester beats valid consent", func(t *testing.T) {
		_, err := f.ledger.Grant(ctx, "alice", "carol", consent.Scope{RecordID: "rec-alice-1"}, nil, "alice")
		require.NoError(t, err)
		_, err = f.subjects.SetStatus(ctx, "carol", id.SubjectStatusSuspended, "root")
		require.NoError(t, err)

		d := f.authorize(t, "carol", "rec-alice-1")
		assert.Equal(t, id.ReasonRequesterInactive, d.Reason)

		_, err = f.subjects.SetStatus(ctx, "carol", id.SubjectStatusActive, "root")
		require.NoError(t, err)
	})

	t.Run("unknown record", func(t *testing.T) {
		d := f.authorize(t, "carol", "rec-nope")
		assert.Equal(t, id.ReasonRecordUnknown, d.Reason)
	})

	t.Run("patient role on another patient's record", func(t *testing.T) {
		d := f.authorize(t, "bob", "rec-alice-1")
		assert.Equal(t, id.ReasonRoleNotPermitted, d.Reason)
	})

	t.Run("clinician without consent", func(t *testing.T) {
		d := f.authorize(t, "carol", "rec-alice-2")
		assert.Equal(t, id.ReasonConsentMissing, d.Reason)
	})
}

func TestAuthorizeConsentLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	scope := consent.Scope{RecordID: "rec-alice-1"}

	_, err := f.ledger.Grant(ctx, "alice", "carol", scope, nil, "alice")
	require.NoError(t, err)

	d := f.authorize(t, "carol", "rec-alice-1")
	assert.Equal(t, id.OutcomeGranted, d.Outcome)
	assert.Equal(t, id.ReasonConsentSatisfied, d.Reason)
	assert.Equal(t, "cas://sha256/aaa", d.StoragePointer)

	// Revocation takes effect on the next authorize.
	_, err = f.ledger.Revoke(ctx, "alice", "carol", scope, "alice")
	require.NoError(t, err)
	d = f.authorize(t, "carol", "rec-alice-1")
	assert.Equal(t, id.ReasonConsentMissing, d.Reason)

	// Re-granting after revoke is not a duplicate and restores access.
	_, err = f.ledger.Grant(ctx, "alice", "carol", scope, nil, "alice")
	require.NoError(t, err)
	d = f.authorize(t, "carol", "rec-alice-1")
	assert.Equal(t, id.ReasonConsentSatisfied, d.Reason)
}

func TestAuthorizeCategoryScopeAndExpiry(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	expiry := base.Add(24 * time.Hour)

	ctx := requestcontext.WithTime(context.Background(), base)
	_, err := f.ledger.Grant(ctx, "alice", "carol", consent.Scope{Category: "labs"}, &expiry, "alice")
	require.NoError(t, err)

	authorizeAt := func(at time.Time) *Decision {
		d, err := f.gate.Authorize(requestcontext.WithTime(context.Background(), at), Request{
			RequesterID: "carol",
			RecordID:    "rec-alice-2",
			Action:      id.ActionRead,
		})
		require.NoError(t, err)
		return d
	}

	// Category grant covers the labs record but not the imaging one.
	assert.Equal(t, id.ReasonConsentSatisfied, authorizeAt(base.Add(time.Hour)).Reason)
	d := f.authorize(t, "carol", "rec-alice-1")
	assert.Equal(t, id.ReasonConsentMissing, d.Reason)

	// An expired grant is never effective, including at the exact instant.
	assert.Equal(t, id.ReasonConsentMissing, authorizeAt(expiry).Reason)
	assert.Equal(t, id.ReasonConsentMissing, authorizeAt(expiry.Add(time.Minute)).Reason)
}

func TestAuthorizeAdministratorNeedsConsent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.authorize(t, "root", "rec-alice-1")
	assert.Equal(t, id.ReasonConsentMissing, d.Reason)

	_, err := f.ledger.Grant(ctx, "alice", "root", consent.Scope{RecordID: "rec-alice-1"}, nil, "alice")
	require.NoError(t, err)
	d = f.authorize(t, "root", "rec-alice-1")
	assert.Equal(t, id.ReasonConsentSatisfied, d.Reason)
}

func TestAuthorizeWritesExactlyOneAuditEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.authorize(t, "alice", "rec-alice-1")
	f.authorize(t, "ghost", "rec-alice-1")
	f.authorize(t, "carol", "rec-alice-2")

	entries, err := f.trail.Query(ctx, audit.Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, uint64(i+1), e.Seq)
	}
	assert.Equal(t, id.ReasonSelfAccess, entries[0].Reason)
	assert.Equal(t, id.ReasonRequesterUnknown, entries[1].Reason)
	assert.Equal(t, id.ReasonConsentMissing, entries[2].Reason)
}

func TestAuthorizeConcurrentGaplessSequence(t *testing.T) {
	f := newFixture(t)
	const callers = 64

	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := f.gate.Authorize(context.Background(), Request{
				RequesterID: "alice",
				RecordID:    "rec-alice-1",
				Action:      id.ActionRead,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	entries, err := f.trail.Query(context.Background(), audit.Filter{})
	require.NoError(t, err)
	require.Len(t, entries, callers)
	for i, e := range entries {
		require.Equal(t, uint64(i+1), e.Seq)
	}
}

func TestAuthorizeIdentityTimeoutDeniesUnknown(t *testing.T) {
	// An identity layer timeout is evidence of an unknown requester, not an
	// infrastructure failure surfaced to the caller.
	f := newFixture(t)
	timeoutIdentity := identityFunc(func(ctx context.Context, subjectID id.SubjectID) (id.Role, id.SubjectStatus, error) {
		return "", "", dErrors.New(dErrors.CodeTimeout, "identity lookup timed out")
	})
	f.gate.identity = timeoutIdentity

	d := f.authorize(t, "alice", "rec-alice-1")
	assert.Equal(t, id.OutcomeDenied, d.Outcome)
	assert.Equal(t, id.ReasonRequesterUnknown, d.Reason)
}

type identityFunc func(ctx context.Context, subjectID id.SubjectID) (id.Role, id.SubjectStatus, error)

func (f identityFunc) Resolve(ctx context.Context, subjectID id.SubjectID) (id.Role, id.SubjectStatus, error) {
	return f(ctx, subjectID)
}
