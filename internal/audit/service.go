package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/requestcontext"
)

// Query limits. A reader pages with AfterSeq rather than raising the limit.
const (
	defaultQueryLimit = 100
	maxQueryLimit     = 1000
)

// Service is the audit trail: the exclusive owner of and only writer to
// AccessDecision entries. It is append-only; nothing here mutates or deletes.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Append stores one decision entry and returns its assigned sequence number.
// Any store failure surfaces as CodeAuditWriteFailed: the caller must treat
// it as fatal to the enclosing transaction, because a decision that was never
// durably recorded must not be returned.
func (s *Service) Append(ctx context.Context, entry *Entry) (uint64, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = requestcontext.Now(ctx)
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.RequestID == "" {
		entry.RequestID = requestcontext.RequestID(ctx)
	}
	seq, err := s.store.Append(ctx, entry)
	if err != nil {
		s.logger.ErrorContext(ctx, "audit append failed",
			"request_id", entry.RequestID,
			"requester_id", entry.RequesterID,
			"record_id", entry.RecordID,
			"error", err,
		)
		return 0, dErrors.Wrap(err, dErrors.CodeAuditWriteFailed, "audit trail append failed")
	}
	entry.Seq = seq
	return seq, nil
}

// Query returns entries in sequence order for compliance review.
func (s *Service) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultQueryLimit
	}
	if filter.Limit > maxQueryLimit {
		filter.Limit = maxQueryLimit
	}
	entries, err := s.store.Query(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "audit trail query failed")
	}
	return entries, nil
}
