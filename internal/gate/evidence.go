package gate

import (
	"context"
	"time"

	id "medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
)

// gatherEvidence collects rule inputs in the same order the rules consume
// them, stopping as soon as a later input could no longer matter. It returns
// an error only for infrastructure failures; "subject not found" and "record
// not found" are evidence, not errors.
func (s *Service) gatherEvidence(ctx context.Context, req Request, now time.Time) (evidence, error) {
	var ev evidence

	role, status, err := s.identity.Resolve(ctx, req.RequesterID)
	if err != nil {
		// A timed-out identity lookup is indistinguishable from an
		// unknown requester to the gate and denies the same way.
		if dErrors.HasCode(err, dErrors.CodeUnknownSubject) || dErrors.HasCode(err, dErrors.CodeTimeout) {
			return ev, nil
		}
		return ev, err
	}
	ev.requesterKnown = true
	ev.requesterRole = role
	ev.requesterStatus = status

	rec, err := s.records.Lookup(ctx, req.RecordID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnknownRecord) {
			return ev, nil
		}
		return ev, err
	}
	ev.recordKnown = true
	ev.patientID = rec.PatientID
	ev.category = rec.Category
	ev.storagePointer = rec.StoragePointer

	// Self-access and non-permitted roles are decided without touching the
	// ledger, so the consent query runs only when its answer can matter.
	if req.RequesterID == ev.patientID {
		return ev, nil
	}
	if role != id.RoleClinician && role != id.RoleAdministrator {
		return ev, nil
	}

	effective, err := s.consent.IsEffective(ctx, ev.patientID, req.RequesterID, req.RecordID, ev.category, now)
	if err != nil {
		return ev, err
	}
	ev.consentEffective = effective

	return ev, nil
}
