package gate

import (
	"time"

	id "medgate/pkg/domain"
)

// Request is one authorization question: may requester perform action on
// record, right now. The requester identity comes from the session layer,
// never from the request body.
type Request struct {
	RequesterID id.SubjectID
	RecordID    id.RecordID
	Action      id.Action
}

// Decision is the gate's answer. Every decision, granted or denied, has a
// matching audit entry; AuditSeq is that entry's sequence number. A Decision
// without one never leaves the gate.
type Decision struct {
	Outcome     id.Outcome
	Reason      id.ReasonCode
	RequesterID id.SubjectID
	RecordID    id.RecordID
	PatientID   id.SubjectID
	Action      id.Action
	EvaluatedAt time.Time
	AuditSeq    uint64

	// StoragePointer is set on granted decisions, whatever the action, so the
	// caller can reach the record bytes. Denied decisions never carry it.
	StoragePointer string
}

// Granted reports whether the decision permits the action.
func (d *Decision) Granted() bool {
	return d.Outcome == id.OutcomeGranted
}
