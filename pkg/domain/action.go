package domain

import dErrors "medgate/pkg/domain-errors"

// Action is the operation a requester wants to perform on a record.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionExport Action = "export"
)

var validActions = map[Action]bool{
	ActionRead:   true,
	ActionWrite:  true,
	ActionExport: true,
}

// ParseAction constructs an Action from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseAction(s string) (Action, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "action cannot be empty")
	}
	a := Action(s)
	if !a.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid action")
	}
	return a, nil
}

// IsValid checks if the action is one of the supported enum values.
func (a Action) IsValid() bool {
	return validActions[a]
}

func (a Action) String() string {
	return string(a)
}
