package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	id "medgate/pkg/domain"
	"medgate/pkg/platform/sentinel"
	txcontext "medgate/pkg/platform/tx"
)

// PostgresStore persists subjects in PostgreSQL. It is transaction-aware: when
// the context carries a *sql.Tx it executes against it, so subject reads done
// inside an authorization transaction see that transaction's snapshot.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Save(ctx context.Context, subject *Subject) error {
	const query = `
		INSERT INTO subjects (subject_id, role, status, registered_at, status_changed_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		subject.ID.String(),
		subject.Role.String(),
		subject.Status.String(),
		subject.RegisteredAt,
		subject.StatusChangedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, subjectID id.SubjectID) (*Subject, error) {
	const query = `
		SELECT subject_id, role, status, registered_at, status_changed_at
		FROM subjects
		WHERE subject_id = $1
	`
	var subject Subject
	var rawID, rawRole, rawStatus string
	err := s.q(ctx).QueryRowContext(ctx, query, subjectID.String()).Scan(
		&rawID, &rawRole, &rawStatus, &subject.RegisteredAt, &subject.StatusChangedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find subject: %w", err)
	}
	subject.ID = id.SubjectID(rawID)
	subject.Role = id.Role(rawRole)
	subject.Status = id.SubjectStatus(rawStatus)
	return &subject, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, subjectID id.SubjectID, status id.SubjectStatus, at time.Time) error {
	const query = `
		UPDATE subjects SET status = $2, status_changed_at = $3
		WHERE subject_id = $1
	`
	res, err := s.q(ctx).ExecContext(ctx, query, subjectID.String(), status.String(), at)
	if err != nil {
		return fmt.Errorf("update subject status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update subject status: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
