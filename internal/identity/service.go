package identity

import (
	"context"
	"errors"
	"log/slog"

	id "medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/platform/sentinel"
	"medgate/pkg/requestcontext"
)

// Service is the identity registry: it owns Subject records and is the only
// writer to them. It emits no audit entries itself; the access gate is the
// audit boundary.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Register creates a subject with status active.
//
// Errors: CodeDuplicateSubject when the id is already registered.
func (s *Service) Register(ctx context.Context, subjectID id.SubjectID, role id.Role) (*Subject, error) {
	now := requestcontext.Now(ctx)
	subject := &Subject{
		ID:              subjectID,
		Role:            role,
		Status:          id.SubjectStatusActive,
		RegisteredAt:    now,
		StatusChangedAt: now,
	}
	if err := s.store.Save(ctx, subject); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeDuplicateSubject, "subject already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save subject")
	}
	s.logger.InfoContext(ctx, "subject registered",
		"request_id", requestcontext.RequestID(ctx),
		"subject_id", subjectID,
		"role", role,
	)
	return subject, nil
}

// SetStatus transitions a subject's status. Only an active administrator may
// call it. Setting the current status again is an idempotent no-op.
//
// Errors: CodeUnauthorized when the actor is not an active administrator,
// CodeUnknownSubject when the target is absent.
func (s *Service) SetStatus(ctx context.Context, subjectID id.SubjectID, newStatus id.SubjectStatus, actorID id.SubjectID) (*Subject, error) {
	actor, err := s.store.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "administrator role required")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find actor")
	}
	if !actor.IsAdministrator() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "administrator role required")
	}

	subject, err := s.store.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnknownSubject, "subject not registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find subject")
	}
	if subject.Status == newStatus {
		return subject, nil
	}

	now := requestcontext.Now(ctx)
	if err := s.store.UpdateStatus(ctx, subjectID, newStatus, now); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update subject status")
	}
	subject.Status = newStatus
	subject.StatusChangedAt = now

	s.logger.InfoContext(ctx, "subject status changed",
		"request_id", requestcontext.RequestID(ctx),
		"subject_id", subjectID,
		"status", newStatus,
		"actor_id", actorID,
	)
	return subject, nil
}

// Resolve returns the subject's role and status.
//
// Errors: CodeUnknownSubject when absent.
func (s *Service) Resolve(ctx context.Context, subjectID id.SubjectID) (id.Role, id.SubjectStatus, error) {
	subject, err := s.store.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", "", dErrors.New(dErrors.CodeUnknownSubject, "subject not registered")
		}
		return "", "", dErrors.Wrap(err, dErrors.CodeInternal, "find subject")
	}
	return subject.Role, subject.Status, nil
}
