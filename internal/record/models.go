package record

import (
	"time"

	id "medgate/pkg/domain"
)

// Entry is one version of a record pointer. The bytes live off-system; the
// index holds only this opaque reference. A pointer is immutable once written:
// updates append a new version, so the chain stays trustworthy for audit.
type Entry struct {
	RecordID       id.RecordID
	PatientID      id.SubjectID
	Category       id.Category
	StoragePointer string
	Version        int
	IndexedAt      time.Time
}
