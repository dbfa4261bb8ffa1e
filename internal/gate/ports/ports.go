// Package ports defines the interfaces the access gate consumes. They are
// declared here rather than importing the concrete services so the gate's
// dependency arrows stay acyclic and the rule chain is testable in isolation.
package ports

//go:generate mockgen -source=ports.go -destination=../mocks/ports_mocks.go -package=mocks

import (
	"context"
	"time"

	"medgate/internal/audit"
	id "medgate/pkg/domain"
)

// IdentityPort resolves a subject to its verified role and status.
type IdentityPort interface {
	Resolve(ctx context.Context, subjectID id.SubjectID) (id.Role, id.SubjectStatus, error)
}

// ConsentPort answers the single question the gate asks the ledger: does any
// effective grant from patient to grantee cover this record at this instant.
type ConsentPort interface {
	IsEffective(ctx context.Context, patientID, granteeID id.SubjectID, recordID id.RecordID, category id.Category, asOf time.Time) (bool, error)
}

// RecordInfo is the port model of an indexed record: just what the gate
// needs to attribute ownership and, on a granted read, hand back the pointer.
type RecordInfo struct {
	PatientID      id.SubjectID
	Category       id.Category
	StoragePointer string
}

// RecordPort resolves a record id to its owner and pointer.
type RecordPort interface {
	Lookup(ctx context.Context, recordID id.RecordID) (*RecordInfo, error)
}

// AuditPort appends one decision entry and returns its sequence number. The
// gate treats any append failure as fatal to the decision.
type AuditPort interface {
	Append(ctx context.Context, entry *audit.Entry) (uint64, error)
}
