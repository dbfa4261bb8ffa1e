package domain

import dErrors "medgate/pkg/domain-errors"

// SubjectStatus tracks whether a subject may act. Subjects are never deleted;
// revocation is a terminal status so audit references stay resolvable.
type SubjectStatus string

const (
	SubjectStatusActive    SubjectStatus = "active"
	SubjectStatusSuspended SubjectStatus = "suspended"
	SubjectStatusRevoked   SubjectStatus = "revoked"
)

var validSubjectStatuses = map[SubjectStatus]bool{
	SubjectStatusActive:    true,
	SubjectStatusSuspended: true,
	SubjectStatusRevoked:   true,
}

// ParseSubjectStatus constructs a SubjectStatus from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseSubjectStatus(s string) (SubjectStatus, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "status cannot be empty")
	}
	st := SubjectStatus(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid status")
	}
	return st, nil
}

// IsValid checks if the status is one of the supported enum values.
func (s SubjectStatus) IsValid() bool {
	return validSubjectStatuses[s]
}

func (s SubjectStatus) String() string {
	return string(s)
}
