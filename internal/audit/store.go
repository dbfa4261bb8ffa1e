package audit

import "context"

// Store persists the trail. Append assigns the next sequence number
// atomically and returns it; no two entries may share a number and the
// numbering has no gaps. Entries are immutable once stored: no update, no
// delete.
type Store interface {
	Append(ctx context.Context, entry *Entry) (uint64, error)

	// Query returns matching entries in sequence order. The result reflects
	// every append completed before the query started and never blocks
	// writers.
	Query(ctx context.Context, filter Filter) ([]*Entry, error)
}
