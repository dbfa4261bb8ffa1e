package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"medgate/internal/consent"
	"medgate/internal/platform/metrics"
	id "medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/platform/httputil"
	"medgate/pkg/requestcontext"
)

// Service defines the consent ledger operations used by the handler.
type Service interface {
	Grant(ctx context.Context, patientID, granteeID id.SubjectID, scope consent.Scope, expiresAt *time.Time, actorID id.SubjectID) (*consent.Grant, error)
	Revoke(ctx context.Context, patientID, granteeID id.SubjectID, scope consent.Scope, actorID id.SubjectID) (*consent.Grant, error)
	History(ctx context.Context, patientID id.SubjectID, actorID id.SubjectID) ([]*consent.Grant, error)
}

// Handler wires consent ledger endpoints to the service. The actor is always
// the verified subject from the request context.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{service: service, logger: logger, metrics: m}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/consent/grants", h.handleGrant)
	r.Post("/consent/grants/revoke", h.handleRevoke)
	r.Get("/consent/patients/{patientID}/grants", h.handleHistory)
}

type scopePayload struct {
	RecordID string `json:"record_id,omitempty"`
	Category string `json:"category,omitempty"`
}

func (p scopePayload) toScope() (consent.Scope, error) {
	var scope consent.Scope
	if p.RecordID != "" {
		recordID, err := id.ParseRecordID(p.RecordID)
		if err != nil {
			return consent.Scope{}, err
		}
		scope.RecordID = recordID
	}
	if p.Category != "" {
		category, err := id.ParseCategory(p.Category)
		if err != nil {
			return consent.Scope{}, err
		}
		scope.Category = category
	}
	return scope, nil
}

type grantRequest struct {
	PatientID string       `json:"patient_id"`
	GranteeID string       `json:"grantee_id"`
	Scope     scopePayload `json:"scope"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
}

type grantResponse struct {
	GrantID   string     `json:"grant_id"`
	PatientID string     `json:"patient_id"`
	GranteeID string     `json:"grantee_id"`
	Scope     scopePayload `json:"scope"`
	GrantedAt time.Time  `json:"granted_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	Status    string     `json:"status"`
}

func toGrantResponse(g *consent.Grant, now time.Time) grantResponse {
	status := "active"
	if !g.Effective(now) {
		status = "inactive"
	}
	return grantResponse{
		GrantID:   g.ID,
		PatientID: g.PatientID.String(),
		GranteeID: g.GranteeID.String(),
		Scope: scopePayload{
			RecordID: g.Scope.RecordID.String(),
			Category: g.Scope.Category.String(),
		},
		GrantedAt: g.GrantedAt,
		ExpiresAt: g.ExpiresAt,
		RevokedAt: g.RevokedAt,
		Status:    status,
	}
}

func (h *Handler) handleGrant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[grantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	patientID, granteeID, scope, err := parseTriple(req.PatientID, req.GranteeID, req.Scope)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	grant, err := h.service.Grant(ctx, patientID, granteeID, scope, req.ExpiresAt, requestcontext.SubjectID(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "consent grant rejected",
			"request_id", requestID,
			"patient_id", patientID,
			"grantee_id", granteeID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.metrics.IncrementGrantsCreated()
	httputil.WriteJSON(w, http.StatusCreated, toGrantResponse(grant, requestcontext.Now(ctx)))
}

type revokeRequest struct {
	PatientID string       `json:"patient_id"`
	GranteeID string       `json:"grantee_id"`
	Scope     scopePayload `json:"scope"`
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[revokeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	patientID, granteeID, scope, err := parseTriple(req.PatientID, req.GranteeID, req.Scope)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	grant, err := h.service.Revoke(ctx, patientID, granteeID, scope, requestcontext.SubjectID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.metrics.IncrementGrantsRevoked()
	httputil.WriteJSON(w, http.StatusOK, toGrantResponse(grant, requestcontext.Now(ctx)))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	patientID, err := id.ParseSubjectID(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	grants, err := h.service.History(ctx, patientID, requestcontext.SubjectID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	now := requestcontext.Now(ctx)
	out := make([]grantResponse, 0, len(grants))
	for _, g := range grants {
		out = append(out, toGrantResponse(g, now))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"grants": out})
}

func parseTriple(rawPatient, rawGrantee string, rawScope scopePayload) (id.SubjectID, id.SubjectID, consent.Scope, error) {
	patientID, err := id.ParseSubjectID(rawPatient)
	if err != nil {
		return "", "", consent.Scope{}, dErrors.New(dErrors.CodeBadRequest, "invalid patient_id")
	}
	granteeID, err := id.ParseSubjectID(rawGrantee)
	if err != nil {
		return "", "", consent.Scope{}, dErrors.New(dErrors.CodeBadRequest, "invalid grantee_id")
	}
	scope, err := rawScope.toScope()
	if err != nil {
		return "", "", consent.Scope{}, err
	}
	return patientID, granteeID, scope, nil
}
