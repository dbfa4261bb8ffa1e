package consent

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

// PostgresStore persists consent grants in PostgreSQL. Transaction-aware so
// effectiveness reads inside an authorization transaction see a consistent
// snapshot.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Save(ctx context.Context, grant *Grant) error {
	const query = `
		INSERT INTO consent_grants
			(grant_id, patient_id, grantee_id, scope_record_id, scope_category, granted_at, expires_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		grant.ID,
		grant.PatientID.String(),
		grant.GranteeID.String(),
		grant.Scope.RecordID.String(),
		grant.Scope.Category.String(),
		grant.GrantedAt,
		grant.ExpiresAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert grant: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByPair(ctx context.Context, patientID, granteeID id.SubjectID) ([]*Grant, error) {
	const query = `
		SELECT grant_id, patient_id, grantee_id,
		       COALESCE(scope_record_id, ''), COALESCE(scope_category, ''),
		       granted_at, expires_at, revoked_at
		FROM consent_grants
		WHERE patient_id = $1 AND grantee_id = $2
		ORDER BY granted_at
	`
	return s.list(ctx, query, patientID.String(), granteeID.String())
}

func (s *PostgresStore) ListByPatient(ctx context.Context, patientID id.SubjectID) ([]*Grant, error) {
	const query = `
		SELECT grant_id, patient_id, grantee_id,
		       COALESCE(scope_record_id, ''), COALESCE(scope_category, ''),
		       granted_at, expires_at, revoked_at
		FROM consent_grants
		WHERE patient_id = $1
		ORDER BY granted_at
	`
	return s.list(ctx, query, patientID.String())
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*Grant, error) {
	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer rows.Close()

	var out []*Grant
	for rows.Next() {
		var g Grant
		var patient, grantee, scopeRecord, scopeCategory string
		if err := rows.Scan(&g.ID, &patient, &grantee, &scopeRecord, &scopeCategory,
			&g.GrantedAt, &g.ExpiresAt, &g.RevokedAt); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		g.PatientID = id.SubjectID(patient)
		g.GranteeID = id.SubjectID(grantee)
		g.Scope = Scope{RecordID: id.RecordID(scopeRecord), Category: id.Category(scopeCategory)}
		out = append(out, &g)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SetRevoked(ctx context.Context, grantID string, revokedAt time.Time) error {
	const query = `
		UPDATE consent_grants SET revoked_at = $2
		WHERE grant_id = $1 AND revoked_at IS NULL
	`
	res, err := s.q(ctx).ExecContext(ctx, query, grantID, revokedAt)
	if err != nil {
		return fmt.Errorf("revoke grant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke grant: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
