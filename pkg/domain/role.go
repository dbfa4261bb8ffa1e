package domain

import dErrors "medgate/pkg/domain-errors"

// Role is the closed set of subject roles. Authorization rules match on it
// explicitly; there is no open-ended role hierarchy.
type Role string

const (
	RolePatient       Role = "patient"
	RoleClinician     Role = "clinician"
	RoleAdministrator Role = "administrator"
)

// validRoles is the single source of truth for supported roles.
var validRoles = map[Role]bool{
	RolePatient:       true,
	RoleClinician:     true,
	RoleAdministrator: true,
}

// ParseRole constructs a Role from external input.
//
// Usage: call from handlers/adapters when parsing requests.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

func (r Role) String() string {
	return string(r)
}
