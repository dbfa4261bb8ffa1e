package gate

import id "medgate/pkg/domain"

// evidence is everything the rule chain needs, gathered up front so the
// evaluation itself is pure domain logic with no I/O and no side effects.
// Fields past the first failing rule may be zero; evaluate never reads them.
type evidence struct {
	requesterKnown  bool
	requesterRole   id.Role
	requesterStatus id.SubjectStatus

	recordKnown    bool
	patientID      id.SubjectID
	category       id.Category
	storagePointer string

	consentEffective bool
}

// evaluate applies the authorization rule chain in strict order, short-
// circuiting on the first failing rule. Each failure maps to a distinct
// reason code so a denied caller can tell what to fix.
//
// Rule priority (fail-fast):
//  1. Requester must be registered
//  2. Requester must be active
//  3. Record must be indexed
//  4. Patient reading own record passes unconditionally
//  5. Role must be clinician or administrator
//  6. An effective consent grant must cover the record
func evaluate(req Request, ev evidence) (id.Outcome, id.ReasonCode) {
	// Rule 1: requester must be registered
	if !ev.requesterKnown {
		return id.OutcomeDenied, id.ReasonRequesterUnknown
	}

	// Rule 2: requester must be active
	if ev.requesterStatus != id.SubjectStatusActive {
		return id.OutcomeDenied, id.ReasonRequesterInactive
	}

	// Rule 3: record must be indexed
	if !ev.recordKnown {
		return id.OutcomeDenied, id.ReasonRecordUnknown
	}

	// Rule 4: a patient always passes on their own record, regardless of
	// any consent state. Explicit design rule, not a shortcut.
	if req.RequesterID == ev.patientID {
		return id.OutcomeGranted, id.ReasonSelfAccess
	}

	// Rule 5: only clinicians and administrators may reach the consent check
	if ev.requesterRole != id.RoleClinician && ev.requesterRole != id.RoleAdministrator {
		return id.OutcomeDenied, id.ReasonRoleNotPermitted
	}

	// Rule 6: some effective grant must cover the record or its category
	if !ev.consentEffective {
		return id.OutcomeDenied, id.ReasonConsentMissing
	}

	return id.OutcomeGranted, id.ReasonConsentSatisfied
}
