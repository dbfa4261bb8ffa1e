package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"medgate/internal/gate"
	id "medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/platform/httputil"
	"medgate/pkg/requestcontext"
)

// Service defines the gate operation used by the handler.
type Service interface {
	Authorize(ctx context.Context, req gate.Request) (*gate.Decision, error)
}

// Handler exposes the authorization endpoint. The requester is always the
// verified subject from the request context; a caller cannot authorize as
// someone else.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/access/authorize", h.handleAuthorize)
}

type authorizeRequest struct {
	RecordID string `json:"record_id"`
	Action   string `json:"action"`
}

type decisionResponse struct {
	Outcome        string    `json:"outcome"`
	Reason         string    `json:"reason"`
	RequesterID    string    `json:"requester_id"`
	RecordID       string    `json:"record_id"`
	PatientID      string    `json:"patient_id,omitempty"`
	Action         string    `json:"action"`
	EvaluatedAt    time.Time `json:"evaluated_at"`
	AuditSeq       uint64    `json:"audit_seq"`
	StoragePointer string    `json:"storage_pointer,omitempty"`
}

func toDecisionResponse(d *gate.Decision) decisionResponse {
	return decisionResponse{
		Outcome:        string(d.Outcome),
		Reason:         string(d.Reason),
		RequesterID:    d.RequesterID.String(),
		RecordID:       d.RecordID.String(),
		PatientID:      d.PatientID.String(),
		Action:         string(d.Action),
		EvaluatedAt:    d.EvaluatedAt,
		AuditSeq:       d.AuditSeq,
		StoragePointer: d.StoragePointer,
	}
}

func (h *Handler) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[authorizeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	recordID, err := id.ParseRecordID(req.RecordID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid record_id"))
		return
	}
	action, err := id.ParseAction(req.Action)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid action"))
		return
	}

	decision, err := h.service.Authorize(ctx, gate.Request{
		RequesterID: requestcontext.SubjectID(ctx),
		RecordID:    recordID,
		Action:      action,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if !decision.Granted() {
		status = http.StatusForbidden
	}
	httputil.WriteJSON(w, status, toDecisionResponse(decision))
}
