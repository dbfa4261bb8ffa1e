package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	id "medgate/pkg/domain"
	"medgate/pkg/platform/sentinel"
	txcontext "medgate/pkg/platform/tx"
)

// PostgresStore persists record pointer versions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Save(ctx context.Context, entry *Entry) error {
	const query = `
		INSERT INTO record_entries (record_id, patient_id, category, storage_pointer, version, indexed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		entry.RecordID.String(),
		entry.PatientID.String(),
		entry.Category.String(),
		entry.StoragePointer,
		entry.Version,
		entry.IndexedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert record entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindLatest(ctx context.Context, recordID id.RecordID) (*Entry, error) {
	const query = `
		SELECT record_id, patient_id, category, storage_pointer, version, indexed_at
		FROM record_entries
		WHERE record_id = $1
		ORDER BY version DESC
		LIMIT 1
	`
	var e Entry
	var rawRecord, rawPatient, rawCategory string
	err := s.q(ctx).QueryRowContext(ctx, query, recordID.String()).Scan(
		&rawRecord, &rawPatient, &rawCategory, &e.StoragePointer, &e.Version, &e.IndexedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find record entry: %w", err)
	}
	e.RecordID = id.RecordID(rawRecord)
	e.PatientID = id.SubjectID(rawPatient)
	e.Category = id.Category(rawCategory)
	return &e, nil
}

func (s *PostgresStore) ListVersions(ctx context.Context, recordID id.RecordID) ([]*Entry, error) {
	const query = `
		SELECT record_id, patient_id, category, storage_pointer, version, indexed_at
		FROM record_entries
		WHERE record_id = $1
		ORDER BY version
	`
	entries, err := s.list(ctx, query, recordID.String())
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return entries, nil
}

func (s *PostgresStore) ListByPatient(ctx context.Context, patientID id.SubjectID) ([]*Entry, error) {
	const query = `
		SELECT DISTINCT ON (record_id)
		       record_id, patient_id, category, storage_pointer, version, indexed_at
		FROM record_entries
		WHERE patient_id = $1
		ORDER BY record_id, version DESC
	`
	return s.list(ctx, query, patientID.String())
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*Entry, error) {
	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list record entries: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var e Entry
		var rawRecord, rawPatient, rawCategory string
		if err := rows.Scan(&rawRecord, &rawPatient, &rawCategory,
			&e.StoragePointer, &e.Version, &e.IndexedAt); err != nil {
			return nil, fmt.Errorf("scan record entry: %w", err)
		}
		e.RecordID = id.RecordID(rawRecord)
		e.PatientID = id.SubjectID(rawPatient)
		e.Category = id.Category(rawCategory)
		out = append(out, &e)
	}
	return out, rows.Err()
}
