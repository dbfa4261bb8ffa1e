// Package adapters bridges the concrete module services to the gate's ports
// where the shapes do not already line up.
package adapters

import (
	"context"

	"medgate/internal/gate/ports"
	"medgate/internal/record"
	id "medgate/pkg/domain"
)

// RecordAdapter narrows a record.Service to the gate's RecordPort.
type RecordAdapter struct {
	records *record.Service
}

func NewRecordAdapter(records *record.Service) *RecordAdapter {
	return &RecordAdapter{records: records}
}

func (a *RecordAdapter) Lookup(ctx context.Context, recordID id.RecordID) (*ports.RecordInfo, error) {
	entry, err := a.records.Lookup(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return &ports.RecordInfo{
		PatientID:      entry.PatientID,
		Category:       entry.Category,
		StoragePointer: entry.StoragePointer,
	}, nil
}
