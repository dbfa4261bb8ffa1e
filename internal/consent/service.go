package consent

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	id "medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/platform/sentinel"
	"medgate/pkg/requestcontext"
)

// Tx provides the transactional boundary for one consent mutation. The
// duplicate scan and the write it guards run inside fn together; two
// concurrent mutations for the same triple cannot interleave between them.
type Tx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SubjectDirectory is the read-only view of the identity registry the ledger
// needs for role validation. The ledger reads subjects; it never owns them.
type SubjectDirectory interface {
	Resolve(ctx context.Context, subjectID id.SubjectID) (id.Role, id.SubjectStatus, error)
}

// Service is the consent ledger: it owns ConsentGrant records and provides
// the purpose-built effectiveness check the access gate evaluates.
type Service struct {
	store    Store
	subjects SubjectDirectory
	tx       Tx
	logger   *slog.Logger
}

func NewService(store Store, subjects SubjectDirectory, tx Tx, logger *slog.Logger) *Service {
	return &Service{store: store, subjects: subjects, tx: tx, logger: logger}
}

// Grant records a consent grant from patient to grantee. The actor must be
// the patient or an active administrator.
//
// Errors: CodeInvalidScope, CodeUnauthorized, CodeUnknownSubject, and
// CodeDuplicateGrant when an effective grant already exists for the exact
// (patient, grantee, scope) triple; callers must revoke first, which keeps
// grant history unambiguous.
func (s *Service) Grant(ctx context.Context, patientID, granteeID id.SubjectID, scope Scope, expiresAt *time.Time, actorID id.SubjectID) (*Grant, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := s.requirePatientOrAdmin(ctx, patientID, actorID); err != nil {
		return nil, err
	}

	role, _, err := s.subjects.Resolve(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if role != id.RolePatient {
		return nil, dErrors.New(dErrors.CodeUnknownSubject, "grantor is not a registered patient")
	}
	if _, _, err := s.subjects.Resolve(ctx, granteeID); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var grant *Grant
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.store.ListByPair(ctx, patientID, granteeID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "list grants")
		}
		for _, g := range existing {
			if g.Scope.Key() != scope.Key() {
				continue
			}
			if g.Effective(now) {
				return dErrors.New(dErrors.CodeDuplicateGrant, "an effective grant already exists for this scope")
			}
			// An expired grant that was never revoked is retired before its
			// replacement is written, so at most one unrevoked row exists per
			// triple at any time.
			if g.RevokedAt == nil {
				if err := s.store.SetRevoked(ctx, g.ID, now); err != nil {
					return dErrors.Wrap(err, dErrors.CodeInternal, "retire expired grant")
				}
			}
		}

		grant = &Grant{
			ID:        uuid.NewString(),
			PatientID: patientID,
			GranteeID: granteeID,
			Scope:     scope,
			GrantedAt: now,
			ExpiresAt: expiresAt,
		}
		if err := s.store.Save(ctx, grant); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeDuplicateGrant, "an effective grant already exists for this scope")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "save grant")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "consent granted",
		"request_id", requestcontext.RequestID(ctx),
		"patient_id", patientID,
		"grantee_id", granteeID,
		"scope", scope.Key(),
	)
	return grant, nil
}

// Revoke stamps RevokedAt on the effective grant for the exact scope. The
// grant row is kept forever.
//
// Errors: CodeUnauthorized, CodeNoActiveGrant when nothing is effective for
// the triple.
func (s *Service) Revoke(ctx context.Context, patientID, granteeID id.SubjectID, scope Scope, actorID id.SubjectID) (*Grant, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := s.requirePatientOrAdmin(ctx, patientID, actorID); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var revoked *Grant
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		grants, err := s.store.ListByPair(ctx, patientID, granteeID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "list grants")
		}
		for _, g := range grants {
			if g.Scope.Key() != scope.Key() || !g.Effective(now) {
				continue
			}
			if err := s.store.SetRevoked(ctx, g.ID, now); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "revoke grant")
			}
			stamped := *g
			stamped.RevokedAt = &now
			revoked = &stamped
			return nil
		}
		return dErrors.New(dErrors.CodeNoActiveGrant, "no effective grant for this scope")
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "consent revoked",
		"request_id", requestcontext.RequestID(ctx),
		"patient_id", patientID,
		"grantee_id", granteeID,
		"scope", scope.Key(),
		"actor_id", actorID,
	)
	return revoked, nil
}

// IsEffective is a pure read: it reports whether any effective grant from
// patient to grantee covers the record, by exact record id or by category,
// evaluated strictly at asOf.
func (s *Service) IsEffective(ctx context.Context, patientID, granteeID id.SubjectID, recordID id.RecordID, category id.Category, asOf time.Time) (bool, error) {
	grants, err := s.store.ListByPair(ctx, patientID, granteeID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "list grants")
	}
	for _, g := range grants {
		if g.Effective(asOf) && g.Scope.Matches(recordID, category) {
			return true, nil
		}
	}
	return false, nil
}

// History returns the patient's full grant ledger, revoked and expired rows
// included, for the transparency surface. The actor must be the patient or an
// administrator.
func (s *Service) History(ctx context.Context, patientID id.SubjectID, actorID id.SubjectID) ([]*Grant, error) {
	if err := s.requirePatientOrAdmin(ctx, patientID, actorID); err != nil {
		return nil, err
	}
	grants, err := s.store.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list grants")
	}
	return grants, nil
}

// requirePatientOrAdmin enforces that consent mutations come from the patient
// themself or an active administrator.
func (s *Service) requirePatientOrAdmin(ctx context.Context, patientID, actorID id.SubjectID) error {
	if actorID == patientID {
		return nil
	}
	role, status, err := s.subjects.Resolve(ctx, actorID)
	if err != nil || role != id.RoleAdministrator || status != id.SubjectStatusActive {
		return dErrors.New(dErrors.CodeUnauthorized, "only the patient or an administrator may manage consent")
	}
	return nil
}
