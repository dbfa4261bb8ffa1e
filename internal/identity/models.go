package identity

import (
	"time"

	id "medgate/pkg/domain"
)

// Subject is an identity known to the system. Subjects are never physically
// deleted: revocation is a status transition, so audit entries referencing a
// subject always resolve.
type Subject struct {
	ID              id.SubjectID
	Role            id.Role
	Status          id.SubjectStatus
	RegisteredAt    time.Time
	StatusChangedAt time.Time
}

// MayAct returns true when the subject is allowed to act at all.
func (s *Subject) MayAct() bool {
	return s.Status == id.SubjectStatusActive
}

// IsAdministrator returns true for an active administrator, the only subject
// class allowed to mutate other subjects' status or act on patients' behalf.
func (s *Subject) IsAdministrator() bool {
	return s.Role == id.RoleAdministrator && s.MayAct()
}
