package domain

import (
	"strings"

	dErrors "medgate/pkg/domain-errors"
)

// Identifier length cap. Subject and record ids are minted by external systems
// (EHR, MPI); we only require them to be stable, printable, and bounded.
const maxIDLen = 128

// SubjectID identifies a subject (patient, clinician, administrator). The
// external identity layer resolves credentials to this value; the core never
// sees the credential itself.
//
// Usage: construct via ParseSubjectID at trust boundaries; direct casting
// bypasses validation.
type SubjectID string

// ParseSubjectID constructs a SubjectID from external input.
//
// Errors: CodeInvalidInput when empty, too long, or containing whitespace.
func ParseSubjectID(s string) (SubjectID, error) {
	if err := validateID(s, "subject id"); err != nil {
		return "", err
	}
	return SubjectID(s), nil
}

func (id SubjectID) String() string { return string(id) }

// IsNil returns true when the id is unset.
func (id SubjectID) IsNil() bool { return id == "" }

// RecordID identifies an indexed medical record pointer.
type RecordID string

// ParseRecordID constructs a RecordID from external input.
func ParseRecordID(s string) (RecordID, error) {
	if err := validateID(s, "record id"); err != nil {
		return "", err
	}
	return RecordID(s), nil
}

func (id RecordID) String() string { return string(id) }

// IsNil returns true when the id is unset.
func (id RecordID) IsNil() bool { return id == "" }

func validateID(s, what string) error {
	if s == "" {
		return dErrors.New(dErrors.CodeInvalidInput, what+" cannot be empty")
	}
	if len(s) > maxIDLen {
		return dErrors.New(dErrors.CodeInvalidInput, what+" exceeds maximum length")
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return dErrors.New(dErrors.CodeInvalidInput, what+" cannot contain whitespace")
	}
	return nil
}
