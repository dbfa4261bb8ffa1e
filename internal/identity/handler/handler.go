package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"medgate/internal/identity"
	"medgate/internal/platform/metrics"
	id "medgate/pkg/domain"
	"medgate/pkg/platform/httputil"
	"medgate/pkg/requestcontext"
)

// Service defines the identity registry operations used by the handler.
type Service interface {
	Register(ctx context.Context, subjectID id.SubjectID, role id.Role) (*identity.Subject, error)
	SetStatus(ctx context.Context, subjectID id.SubjectID, newStatus id.SubjectStatus, actorID id.SubjectID) (*identity.Subject, error)
	Resolve(ctx context.Context, subjectID id.SubjectID) (id.Role, id.SubjectStatus, error)
}

// Handler wires identity registry endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{service: service, logger: logger, metrics: m}
}

// Register mounts identity endpoints on the router. The router applies the
// administrator guard; registration and status changes are a provisioning
// surface, not a public one.
func (h *Handler) Register(r chi.Router) {
	r.Post("/registry/subjects", h.handleRegister)
	r.Put("/registry/subjects/{subjectID}/status", h.handleSetStatus)
	r.Get("/registry/subjects/{subjectID}", h.handleResolve)
}

type registerRequest struct {
	SubjectID string `json:"subject_id"`
	Role      string `json:"role"`
}

type subjectResponse struct {
	SubjectID       string    `json:"subject_id"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	RegisteredAt    time.Time `json:"registered_at"`
	StatusChangedAt time.Time `json:"status_changed_at"`
}

func toSubjectResponse(s *identity.Subject) subjectResponse {
	return subjectResponse{
		SubjectID:       s.ID.String(),
		Role:            s.Role.String(),
		Status:          s.Status.String(),
		RegisteredAt:    s.RegisteredAt,
		StatusChangedAt: s.StatusChangedAt,
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[registerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	subjectID, err := id.ParseSubjectID(req.SubjectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	role, err := id.ParseRole(req.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	subject, err := h.service.Register(ctx, subjectID, role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.metrics.IncrementSubjectsRegistered(role.String())
	httputil.WriteJSON(w, http.StatusCreated, toSubjectResponse(subject))
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "subjectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[setStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	status, err := id.ParseSubjectStatus(req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	subject, err := h.service.SetStatus(ctx, subjectID, status, requestcontext.SubjectID(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "status change rejected",
			"request_id", requestID,
			"subject_id", subjectID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.metrics.IncrementStatusChanges()
	httputil.WriteJSON(w, http.StatusOK, toSubjectResponse(subject))
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "subjectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	role, status, err := h.service.Resolve(ctx, subjectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"subject_id": subjectID.String(),
		"role":       role.String(),
		"status":     status.String(),
	})
}
