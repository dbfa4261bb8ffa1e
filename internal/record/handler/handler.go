package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"medgate/internal/platform/metrics"
	"medgate/internal/record"
	id "medgate/pkg/domain"
	"medgate/pkg/platform/httputil"
	"medgate/pkg/requestcontext"
)

// Service defines the record index operations used by the handler.
type Service interface {
	Index(ctx context.Context, recordID id.RecordID, patientID id.SubjectID, category id.Category, storagePointer string) (*record.Entry, error)
	Reindex(ctx context.Context, recordID id.RecordID, newStoragePointer string) (*record.Entry, error)
	Versions(ctx context.Context, recordID id.RecordID) ([]*record.Entry, error)
	ListByPatient(ctx context.Context, patientID id.SubjectID) ([]*record.Entry, error)
}

// Handler wires record index endpoints. All of them are an administrative
// surface: reading record content goes through the access gate, never here.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{service: service, logger: logger, metrics: m}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/records", h.handleIndex)
	r.Post("/records/{recordID}/versions", h.handleReindex)
	r.Get("/records/{recordID}/versions", h.handleVersions)
	r.Get("/patients/{patientID}/records", h.handleListByPatient)
}

type indexRequest struct {
	RecordID       string `json:"record_id"`
	PatientID      string `json:"patient_id"`
	Category       string `json:"category"`
	StoragePointer string `json:"storage_pointer"`
}

type entryResponse struct {
	RecordID       string    `json:"record_id"`
	PatientID      string    `json:"patient_id"`
	Category       string    `json:"category"`
	StoragePointer string    `json:"storage_pointer"`
	Version        int       `json:"version"`
	IndexedAt      time.Time `json:"indexed_at"`
}

func toEntryResponse(e *record.Entry) entryResponse {
	return entryResponse{
		RecordID:       e.RecordID.String(),
		PatientID:      e.PatientID.String(),
		Category:       e.Category.String(),
		StoragePointer: e.StoragePointer,
		Version:        e.Version,
		IndexedAt:      e.IndexedAt,
	}
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[indexRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	recordID, err := id.ParseRecordID(req.RecordID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	patientID, err := id.ParseSubjectID(req.PatientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	category, err := id.ParseCategory(req.Category)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry, err := h.service.Index(ctx, recordID, patientID, category, req.StoragePointer)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.metrics.IncrementRecordsIndexed()
	httputil.WriteJSON(w, http.StatusCreated, toEntryResponse(entry))
}

type reindexRequest struct {
	StoragePointer string `json:"storage_pointer"`
}

func (h *Handler) handleReindex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	recordID, err := id.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[reindexRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	entry, err := h.service.Reindex(ctx, recordID, req.StoragePointer)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.metrics.IncrementRecordsIndexed()
	httputil.WriteJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (h *Handler) handleVersions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recordID, err := id.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.service.Versions(ctx, recordID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"versions": out})
}

func (h *Handler) handleListByPatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	patientID, err := id.ParseSubjectID(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.service.ListByPatient(ctx, patientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"records": out})
}
