package consent

import (
	"context"
	"time"

	id "medgate/pkg/domain"
)

// Store persists consent grants. Implementations never delete rows; Revoke
// stamps a timestamp.
type Store interface {
	// Save inserts a grant. May return sentinel.ErrConflict when an unrevoked
	// grant for the same (patient, grantee, scope) triple already exists.
	Save(ctx context.Context, grant *Grant) error

	// ListByPair returns every grant, effective or not, from patient to
	// grantee, oldest first.
	ListByPair(ctx context.Context, patientID, granteeID id.SubjectID) ([]*Grant, error)

	// ListByPatient returns the patient's full grant history, oldest first.
	ListByPatient(ctx context.Context, patientID id.SubjectID) ([]*Grant, error)

	// SetRevoked stamps RevokedAt on a grant. Returns sentinel.ErrNotFound
	// when the grant id is absent.
	SetRevoked(ctx context.Context, grantID string, revokedAt time.Time) error
}
