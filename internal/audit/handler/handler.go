package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"medgate/internal/audit"
	id "medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/platform/httputil"
)

// Service defines the audit trail read surface used by the handler.
type Service interface {
	Query(ctx context.Context, filter audit.Filter) ([]*audit.Entry, error)
}

// Handler exposes the compliance review endpoint. The router mounts it behind
// the administrator guard; the trail has no public write surface at all.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/entries", h.handleQuery)
}

type entryResponse struct {
	Seq         uint64    `json:"seq"`
	EntryID     string    `json:"entry_id"`
	Timestamp   time.Time `json:"timestamp"`
	RequesterID string    `json:"requester_id"`
	PatientID   string    `json:"patient_id"`
	RecordID    string    `json:"record_id"`
	Action      string    `json:"action"`
	Outcome     string    `json:"outcome"`
	Reason      string    `json:"reason"`
	RequestID   string    `json:"request_id,omitempty"`
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.service.Query(ctx, filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]entryResponse, 0, len(entries))
	var lastSeq uint64
	for _, e := range entries {
		lastSeq = e.Seq
		out = append(out, entryResponse{
			Seq:         e.Seq,
			EntryID:     e.ID,
			Timestamp:   e.Timestamp,
			RequesterID: e.RequesterID.String(),
			PatientID:   e.PatientID.String(),
			RecordID:    e.RecordID.String(),
			Action:      e.Action.String(),
			Outcome:     e.Outcome.String(),
			Reason:      e.Reason.String(),
			RequestID:   e.RequestID,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"entries":  out,
		"last_seq": lastSeq,
	})
}

func parseFilter(r *http.Request) (audit.Filter, error) {
	var filter audit.Filter
	q := r.URL.Query()

	if raw := q.Get("patient_id"); raw != "" {
		patientID, err := id.ParseSubjectID(raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "invalid patient_id")
		}
		filter.PatientID = patientID
	}
	if raw := q.Get("requester_id"); raw != "" {
		requesterID, err := id.ParseSubjectID(raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "invalid requester_id")
		}
		filter.RequesterID = requesterID
	}
	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "from must be RFC3339")
		}
		filter.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "to must be RFC3339")
		}
		filter.To = &to
	}
	if raw := q.Get("after_seq"); raw != "" {
		afterSeq, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "after_seq must be a non-negative integer")
		}
		filter.AfterSeq = afterSeq
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}
