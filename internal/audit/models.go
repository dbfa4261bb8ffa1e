package audit

import (
	"time"

	id "medgate/pkg/domain"
)

// Entry is one immutable authorization decision in the trail. Ordering by Seq
// is the canonical event order and matches the real-time order of decisions:
// sequence numbers are strictly increasing with no gaps.
type Entry struct {
	Seq         uint64
	ID          string // uuid, stable across exports
	Timestamp   time.Time
	RequesterID id.SubjectID
	PatientID   id.SubjectID
	RecordID    id.RecordID
	Action      id.Action
	Outcome     id.Outcome
	Reason      id.ReasonCode
	RequestID   string
}

// Filter selects entries for compliance review. AfterSeq/Limit give keyset
// pagination over the canonical order, so a reader can restart from the last
// sequence number it saw.
type Filter struct {
	PatientID   id.SubjectID
	RequesterID id.SubjectID
	From        *time.Time
	To          *time.Time
	AfterSeq    uint64
	Limit       int
}

// Match reports whether the entry passes the filter's field predicates.
// Pagination (AfterSeq/Limit) is handled by the store.
func (f Filter) Match(e *Entry) bool {
	if !f.PatientID.IsNil() && e.PatientID != f.PatientID {
		return false
	}
	if !f.RequesterID.IsNil() && e.RequesterID != f.RequesterID {
		return false
	}
	if f.From != nil && e.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Timestamp.After(*f.To) {
		return false
	}
	return true
}
