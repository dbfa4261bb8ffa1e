package domain

// Outcome is the result of an authorization decision.
type Outcome string

const (
	OutcomeGranted Outcome = "granted"
	OutcomeDenied  Outcome = "denied"
)

func (o Outcome) String() string { return string(o) }

// ReasonCode explains an authorization outcome. Each short-circuit step of the
// access gate produces a distinct code, so audit replay can attribute every
// denial to exactly one failed check.
type ReasonCode string

const (
	ReasonRequesterUnknown  ReasonCode = "requester_unknown"
	ReasonRequesterInactive ReasonCode = "requester_inactive"
	ReasonRecordUnknown     ReasonCode = "record_unknown"
	ReasonSelfAccess        ReasonCode = "self_access"
	ReasonRoleNotPermitted  ReasonCode = "role_not_permitted"
	ReasonConsentMissing    ReasonCode = "consent_missing_or_expired"
	ReasonConsentSatisfied  ReasonCode = "consent_satisfied"
)

func (r ReasonCode) String() string { return string(r) }
