package gate_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"medgate/internal/audit"
	"medgate/internal/gate"
	"medgate/internal/gate/mocks"
	"medgate/internal/gate/ports"
	id "medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
)

func newMockedGate(t *testing.T) (*gate.Service, *mocks.MockIdentityPort, *mocks.MockConsentPort, *mocks.MockRecordPort, *mocks.MockAuditPort) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	identityPort := mocks.NewMockIdentityPort(ctrl)
	consentPort := mocks.NewMockConsentPort(ctrl)
	recordPort := mocks.NewMockRecordPort(ctrl)
	auditPort := mocks.NewMockAuditPort(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := gate.NewService(identityPort, consentPort, recordPort, auditPort, gate.NewSerialTx(), logger, nil)
	return svc, identityPort, consentPort, recordPort, auditPort
}

func TestAuthorizeAuditFailureIsFatal(t *testing.T) {
	svc, identityPort, _, recordPort, auditPort := newMockedGate(t)

	identityPort.EXPECT().Resolve(gomock.Any(), id.SubjectID("alice")).
		Return(id.RolePatient, id.SubjectStatusActive, nil)
	recordPort.EXPECT().Lookup(gomock.Any(), id.RecordID("rec-1")).
		Return(&ports.RecordInfo{PatientID: "alice", Category: "imaging", StoragePointer: "cas://x"}, nil)
	auditPort.EXPECT().Append(gomock.Any(), gomock.Any()).
		Return(uint64(0), dErrors.Wrap(errors.New("disk full"), dErrors.CodeAuditWriteFailed, "audit trail append failed"))

	decision, err := svc.Authorize(context.Background(), gate.Request{
		RequesterID: "alice",
		RecordID:    "rec-1",
		Action:      id.ActionRead,
	})

	// A would-be grant whose audit entry cannot be written never leaves the
	// gate as a decision.
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAuditWriteFailed))
	assert.Nil(t, decision)
}

func TestAuthorizeAppendsDenialEntry(t *testing.T) {
	svc, identityPort, _, _, auditPort := newMockedGate(t)

	identityPort.EXPECT().Resolve(gomock.Any(), id.SubjectID("ghost")).
		Return(id.Role(""), id.SubjectStatus(""), dErrors.New(dErrors.CodeUnknownSubject, "subject not found"))

	var appended *audit.Entry
	auditPort.EXPECT().Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *audit.Entry) (uint64, error) {
			appended = entry
			return 7, nil
		})

	decision, err := svc.Authorize(context.Background(), gate.Request{
		RequesterID: "ghost",
		RecordID:    "rec-1",
		Action:      id.ActionWrite,
	})

	require.NoError(t, err)
	assert.Equal(t, id.OutcomeDenied, decision.Outcome)
	assert.Equal(t, id.ReasonRequesterUnknown, decision.Reason)
	assert.Equal(t, uint64(7), decision.AuditSeq)

	require.NotNil(t, appended)
	assert.Equal(t, id.OutcomeDenied, appended.Outcome)
	assert.Equal(t, id.ReasonRequesterUnknown, appended.Reason)
	assert.Equal(t, id.ActionWrite, appended.Action)
}

func TestAuthorizeInfrastructureErrorPropagates(t *testing.T) {
	svc, identityPort, _, _, _ := newMockedGate(t)

	identityPort.EXPECT().Resolve(gomock.Any(), gomock.Any()).
		Return(id.Role(""), id.SubjectStatus(""), dErrors.New(dErrors.CodeInternal, "identity store unavailable"))

	decision, err := svc.Authorize(context.Background(), gate.Request{
		RequesterID: "alice",
		RecordID:    "rec-1",
		Action:      id.ActionRead,
	})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.Nil(t, decision)
}
