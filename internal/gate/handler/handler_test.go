package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"medgate/internal/gate"
	"medgate/internal/gate/handler/mocks"
	id "medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/gate-mocks.go -package=mocks Service

func newTestHandler(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(mockService, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r, mockService
}

func doAuthorize(t *testing.T, r http.Handler, subject id.SubjectID, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/access/authorize", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	ctx := requestcontext.WithIdentity(req.Context(), subject, id.RoleClinician, id.SubjectStatusActive)
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleAuthorizeGranted(t *testing.T) {
	r, mockService := newTestHandler(t)
	evaluated := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mockService.EXPECT().
		Authorize(gomock.Any(), gate.Request{RequesterID: "carol", RecordID: "rec-1", Action: id.ActionRead}).
		Return(&gate.Decision{
			Outcome:        id.OutcomeGranted,
			Reason:         id.ReasonConsentSatisfied,
			RequesterID:    "carol",
			RecordID:       "rec-1",
			PatientID:      "alice",
			Action:         id.ActionRead,
			EvaluatedAt:    evaluated,
			AuditSeq:       42,
			StoragePointer: "cas://sha256/aaa",
		}, nil)

	rec := doAuthorize(t, r, "carol", map[string]any{"record_id": "rec-1", "action": "read"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "granted", resp["outcome"])
	assert.Equal(t, "consent_satisfied", resp["reason"])
	assert.Equal(t, "cas://sha256/aaa", resp["storage_pointer"])
	assert.Equal(t, float64(42), resp["audit_seq"])
}

func TestHandleAuthorizeDenied(t *testing.T) {
	r, mockService := newTestHandler(t)

	mockService.EXPECT().
		Authorize(gomock.Any(), gomock.Any()).
		Return(&gate.Decision{
			Outcome:     id.OutcomeDenied,
			Reason:      id.ReasonConsentMissing,
			RequesterID: "carol",
			RecordID:    "rec-1",
			PatientID:   "alice",
			Action:      id.ActionRead,
		}, nil)

	rec := doAuthorize(t, r, "carol", map[string]any{"record_id": "rec-1", "action": "read"})

	require.Equal(t, http.StatusForbidden, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "denied", resp["outcome"])
	assert.Equal(t, "consent_missing_or_expired", resp["reason"])
	_, hasPointer := resp["storage_pointer"]
	assert.False(t, hasPointer)
}

func TestHandleAuthorizeAuditFailure(t *testing.T) {
	r, mockService := newTestHandler(t)

	mockService.EXPECT().
		Authorize(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeAuditWriteFailed, "audit trail append failed"))

	rec := doAuthorize(t, r, "carol", map[string]any{"record_id": "rec-1", "action": "read"})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(dErrors.CodeAuditWriteFailed), resp["error"])
	assert.Empty(t, resp["error_description"])
}

func TestHandleAuthorizeBadInput(t *testing.T) {
	r, mockService := newTestHandler(t)
	_ = mockService // no service call expected

	t.Run("missing record_id", func(t *testing.T) {
		rec := doAuthorize(t, r, "carol", map[string]any{"action": "read"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown action", func(t *testing.T) {
		rec := doAuthorize(t, r, "carol", map[string]any{"record_id": "rec-1", "action": "delete"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
