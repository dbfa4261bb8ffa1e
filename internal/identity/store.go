package identity

import (
	"context"
	"time"

	id "medgate/pkg/domain"
)

// Store persists subjects. Implementations return sentinel.ErrNotFound and
// sentinel.ErrConflict; the service translates them into domain codes.
type Store interface {
	// Save inserts a new subject. Returns sentinel.ErrConflict when the id
	// is already registered.
	Save(ctx context.Context, subject *Subject) error

	// FindByID returns the subject or sentinel.ErrNotFound.
	FindByID(ctx context.Context, subjectID id.SubjectID) (*Subject, error)

	// UpdateStatus sets the subject's status. Returns sentinel.ErrNotFound
	// when the subject is absent.
	UpdateStatus(ctx context.Context, subjectID id.SubjectID, status id.SubjectStatus, at time.Time) error
}
