package record

import (
	"context"
	"errors"
	"log/slog"

	id "medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/platform/sentinel"
	"medgate/pkg/requestcontext"
)

// SubjectDirectory is the read-only identity view the index needs to validate
// record ownership.
type SubjectDirectory interface {
	Resolve(ctx context.Context, subjectID id.SubjectID) (id.Role, id.SubjectStatus, error)
}

// Service is the record index: it owns RecordEntry rows mapping a record id
// to its patient, category, and off-system storage pointer.
type Service struct {
	store    Store
	subjects SubjectDirectory
	logger   *slog.Logger
}

func NewService(store Store, subjects SubjectDirectory, logger *slog.Logger) *Service {
	return &Service{store: store, subjects: subjects, logger: logger}
}

// Index registers a new record pointer as version 1.
//
// Errors: CodeInvalidInput on an empty pointer, CodeUnknownSubject when the
// owner is not a registered patient, CodeDuplicateRecord when the record id
// is taken.
func (s *Service) Index(ctx context.Context, recordID id.RecordID, patientID id.SubjectID, category id.Category, storagePointer string) (*Entry, error) {
	if storagePointer == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "storage pointer cannot be empty")
	}
	role, _, err := s.subjects.Resolve(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if role != id.RolePatient {
		return nil, dErrors.New(dErrors.CodeUnknownSubject, "record owner is not a registered patient")
	}

	entry := &Entry{
		RecordID:       recordID,
		PatientID:      patientID,
		Category:       category,
		StoragePointer: storagePointer,
		Version:        1,
		IndexedAt:      requestcontext.Now(ctx),
	}
	if err := s.store.Save(ctx, entry); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeDuplicateRecord, "record already indexed")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save record entry")
	}

	s.logger.InfoContext(ctx, "record indexed",
		"request_id", requestcontext.RequestID(ctx),
		"record_id", recordID,
		"patient_id", patientID,
		"category", category,
	)
	return entry, nil
}

// Lookup returns the latest version of a record pointer.
//
// Errors: CodeUnknownRecord when the record was never indexed.
func (s *Service) Lookup(ctx context.Context, recordID id.RecordID) (*Entry, error) {
	entry, err := s.store.FindLatest(ctx, recordID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnknownRecord, "record not indexed")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find record entry")
	}
	return entry, nil
}

// Reindex appends a new version carrying the new pointer. Patient and
// category are inherited: a record never changes owner.
//
// Errors: CodeInvalidInput, CodeUnknownRecord, CodeDuplicateRecord when a
// concurrent reindex wrote the next version first.
func (s *Service) Reindex(ctx context.Context, recordID id.RecordID, newStoragePointer string) (*Entry, error) {
	if newStoragePointer == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "storage pointer cannot be empty")
	}
	latest, err := s.Lookup(ctx, recordID)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		RecordID:       recordID,
		PatientID:      latest.PatientID,
		Category:       latest.Category,
		StoragePointer: newStoragePointer,
		Version:        latest.Version + 1,
		IndexedAt:      requestcontext.Now(ctx),
	}
	if err := s.store.Save(ctx, entry); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeDuplicateRecord, "record version already written")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save record version")
	}

	s.logger.InfoContext(ctx, "record reindexed",
		"request_id", requestcontext.RequestID(ctx),
		"record_id", recordID,
		"version", entry.Version,
	)
	return entry, nil
}

// Versions returns the full version chain, oldest first, for compliance
// review.
//
// Errors: CodeUnknownRecord.
func (s *Service) Versions(ctx context.Context, recordID id.RecordID) ([]*Entry, error) {
	entries, err := s.store.ListVersions(ctx, recordID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnknownRecord, "record not indexed")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list record versions")
	}
	return entries, nil
}

// ListByPatient returns the latest version of each record the patient owns.
func (s *Service) ListByPatient(ctx context.Context, patientID id.SubjectID) ([]*Entry, error) {
	entries, err := s.store.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list records by patient")
	}
	return entries, nil
}
