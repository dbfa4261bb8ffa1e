package consent

import (
	"time"

	id "medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
)

// Scope is what a grant covers: exactly one of a specific record or a record
// category. Grants are permit-only, so evaluation is a union over effective
// grants; uniqueness is enforced per exact scope so a record-level and a
// category-level grant for the same pair coexist and revoke independently.
type Scope struct {
	RecordID id.RecordID `json:"record_id,omitempty"`
	Category id.Category `json:"category,omitempty"`
}

// Validate enforces the exactly-one-dimension invariant.
//
// Errors: CodeInvalidScope when empty or when both dimensions are set.
func (s Scope) Validate() error {
	if s.RecordID.IsNil() && s.Category.IsNil() {
		return dErrors.New(dErrors.CodeInvalidScope, "scope must name a record or a category")
	}
	if !s.RecordID.IsNil() && !s.Category.IsNil() {
		return dErrors.New(dErrors.CodeInvalidScope, "scope cannot name both a record and a category")
	}
	return nil
}

// Matches reports whether a record identified by recordID and category falls
// under this scope.
func (s Scope) Matches(recordID id.RecordID, category id.Category) bool {
	if !s.RecordID.IsNil() {
		return s.RecordID == recordID
	}
	return s.Category == category
}

// Key is the canonical identity of a scope, used for effective-grant
// uniqueness.
func (s Scope) Key() string {
	if !s.RecordID.IsNil() {
		return "record:" + s.RecordID.String()
	}
	return "category:" + s.Category.String()
}

// Grant captures a patient's authorization for a grantee over a scope of
// records for a bounded time. Grants are never deleted; revocation stamps
// RevokedAt so history stays reconstructible.
type Grant struct {
	ID        string
	PatientID id.SubjectID
	GranteeID id.SubjectID
	Scope     Scope
	GrantedAt time.Time
	ExpiresAt *time.Time // nil = non-expiring
	RevokedAt *time.Time
}

// Effective returns true when the grant is neither revoked nor expired at the
// evaluation instant. Callers must pass the decision's own timestamp, never a
// later one, to keep decisions reproducible for audit replay.
func (g *Grant) Effective(asOf time.Time) bool {
	if g.RevokedAt != nil {
		return false
	}
	if g.ExpiresAt != nil && !asOf.Before(*g.ExpiresAt) {
		return false
	}
	return true
}
