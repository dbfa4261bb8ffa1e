package record

import (
	"context"

	id "medgate/pkg/domain"
)

// Store persists record pointer versions. Versions are append-only; no
// implementation updates or deletes a written row.
type Store interface {
	// Save appends a version. Returns sentinel.ErrConflict when the
	// (record, version) pair already exists.
	Save(ctx context.Context, entry *Entry) error

	// FindLatest returns the highest version or sentinel.ErrNotFound.
	FindLatest(ctx context.Context, recordID id.RecordID) (*Entry, error)

	// ListVersions returns the full chain, oldest first, or
	// sentinel.ErrNotFound when the record was never indexed.
	ListVersions(ctx context.Context, recordID id.RecordID) ([]*Entry, error)

	// ListByPatient returns the latest version of each record owned by the
	// patient, ordered by record id.
	ListByPatient(ctx context.Context, patientID id.SubjectID) ([]*Entry, error)
}
