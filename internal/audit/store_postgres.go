package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	id "medgate/pkg/domain"
	"medgate/pkg/platform/sentinel"
	txcontext "medgate/pkg/platform/tx"
)

// PostgresStore persists the trail in PostgreSQL. Append computes the next
// sequence number inside the caller's transaction; the unique index on
// sequence_number turns any concurrent race into a conflict, which the gate
// surfaces as an audit write failure and rolls back. No gaps, no duplicates.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, entry *Entry) (uint64, error) {
	const query = `
		INSERT INTO audit_entries
			(sequence_number, entry_id, ts, requester_id, patient_id, record_id, action, outcome, reason, request_id)
		SELECT COALESCE(MAX(sequence_number), 0) + 1, $1, $2, $3, $4, $5, $6, $7, $8, $9
		FROM audit_entries
		RETURNING sequence_number
	`
	var seq uint64
	err := s.q(ctx).QueryRowContext(ctx, query,
		entry.ID,
		entry.Timestamp,
		entry.RequesterID.String(),
		entry.PatientID.String(),
		entry.RecordID.String(),
		entry.Action.String(),
		entry.Outcome.String(),
		entry.Reason.String(),
		entry.RequestID,
	).Scan(&seq)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, sentinel.ErrConflict
		}
		return 0, fmt.Errorf("insert audit entry: %w", err)
	}
	return seq, nil
}

func (s *PostgresStore) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	var (
		conds = []string{"sequence_number > $1"}
		args  = []any{filter.AfterSeq}
	)
	if !filter.PatientID.IsNil() {
		args = append(args, filter.PatientID.String())
		conds = append(conds, "patient_id = $"+strconv.Itoa(len(args)))
	}
	if !filter.RequesterID.IsNil() {
		args = append(args, filter.RequesterID.String())
		conds = append(conds, "requester_id = $"+strconv.Itoa(len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, "ts >= $"+strconv.Itoa(len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, "ts <= $"+strconv.Itoa(len(args)))
	}

	query := `
		SELECT sequence_number, entry_id, ts, requester_id, patient_id, record_id, action, outcome, reason, request_id
		FROM audit_entries
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY sequence_number`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var e Entry
		var requester, patient, record, action, outcome, reason string
		if err := rows.Scan(&e.Seq, &e.ID, &e.Timestamp,
			&requester, &patient, &record, &action, &outcome, &reason, &e.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.RequesterID = id.SubjectID(requester)
		e.PatientID = id.SubjectID(patient)
		e.RecordID = id.RecordID(record)
		e.Action = id.Action(action)
		e.Outcome = id.Outcome(outcome)
		e.Reason = id.ReasonCode(reason)
		out = append(out, &e)
	}
	return out, rows.Err()
}
