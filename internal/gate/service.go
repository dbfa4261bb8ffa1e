package gate

import (
	"context"
	"log/slog"
	"time"

	"medgate/internal/audit"
	"medgate/internal/gate/metrics"
	"medgate/internal/gate/ports"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/requestcontext"
)

// Tx provides the transactional boundary for one authorization. The evidence
// reads, the decision, and its audit append all run inside fn; if fn returns
// an error nothing it did may persist.
type Tx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service is the single authorization choke-point. Every access to an indexed
// record passes through Authorize; there is no side door.
type Service struct {
	identity ports.IdentityPort
	consent  ports.ConsentPort
	records  ports.RecordPort
	audit    ports.AuditPort
	tx       Tx
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewService(
	identity ports.IdentityPort,
	consent ports.ConsentPort,
	records ports.RecordPort,
	auditTrail ports.AuditPort,
	tx Tx,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		identity: identity,
		consent:  consent,
		records:  records,
		audit:    auditTrail,
		tx:       tx,
		logger:   logger,
		metrics:  m,
	}
}

// Authorize answers one access question and records the answer. The returned
// Decision always carries the sequence number of its audit entry: decision
// and entry commit together or not at all. A denied request is a normal
// Decision, not an error; the only fatal path is a failed audit append,
// which aborts the transaction and surfaces CodeAuditWriteFailed.
func (s *Service) Authorize(ctx context.Context, req Request) (*Decision, error) {
	now := requestcontext.Now(ctx)
	start := time.Now()

	var decision *Decision
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		ev, err := s.gatherEvidence(ctx, req, now)
		if err != nil {
			return err
		}

		outcome, reason := evaluate(req, ev)

		decision = &Decision{
			Outcome:     outcome,
			Reason:      reason,
			RequesterID: req.RequesterID,
			RecordID:    req.RecordID,
			PatientID:   ev.patientID,
			Action:      req.Action,
			EvaluatedAt: now,
		}
		if decision.Granted() {
			decision.StoragePointer = ev.storagePointer
		}

		seq, err := s.audit.Append(ctx, &audit.Entry{
			Timestamp:   now,
			RequesterID: req.RequesterID,
			PatientID:   ev.patientID,
			RecordID:    req.RecordID,
			Action:      req.Action,
			Outcome:     outcome,
			Reason:      reason,
		})
		if err != nil {
			return err
		}
		decision.AuditSeq = seq
		return nil
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeAuditWriteFailed) {
			s.metrics.IncrementAuditFailure()
		}
		s.logger.ErrorContext(ctx, "authorize aborted",
			"request_id", requestcontext.RequestID(ctx),
			"requester_id", req.RequesterID,
			"record_id", req.RecordID,
			"error", err,
		)
		return nil, err
	}

	s.metrics.IncrementDecision(string(decision.Outcome), string(decision.Reason))
	s.metrics.ObserveAuthorizeLatency(time.Since(start))
	s.logger.InfoContext(ctx, "access decision",
		"request_id", requestcontext.RequestID(ctx),
		"requester_id", req.RequesterID,
		"record_id", req.RecordID,
		"action", req.Action,
		"outcome", decision.Outcome,
		"reason", decision.Reason,
		"audit_seq", decision.AuditSeq,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return decision, nil
}
