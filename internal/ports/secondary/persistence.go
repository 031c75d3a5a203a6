// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
)

var (
	// ErrStorageCorrupt is returned when persisted state cannot be parsed
	// into the expected ledger shape.
	ErrStorageCorrupt = errors.New("ledger storage corrupt")
	// ErrStorageWrite is returned when persisting the ledger fails.
	ErrStorageWrite = errors.New("ledger storage write failed")
)

// LedgerStore defines the secondary port for effort ledger persistence.
// The ledger is always read and written as a whole.
type LedgerStore interface {
	// Load reads the persisted ledger in insertion order.
	// Returns an empty ledger when nothing has been persisted yet.
	Load(ctx context.Context) ([]*EffortRecord, error)

	// Save atomically replaces the persisted ledger with records.
	Save(ctx context.Context, records []*EffortRecord) error

	// Location describes where the ledger lives, for diagnostics.
	Location() string
}

// EffortRecord represents an effort as stored in persistence.
type EffortRecord struct {
	ID           string
	System       string
	Installation string
	Owner        string
	Materials    []MaterialRecord // Ordered; quantities are always > 0
	Completed    bool
}

// MaterialRecord represents one required commodity of an effort.
type MaterialRecord struct {
	Commodity string
	Quantity  int
}

// Clone returns a deep copy of the record.
func (r *EffortRecord) Clone() *EffortRecord {
	clone := *r
	clone.Materials = make([]MaterialRecord, len(r.Materials))
	copy(clone.Materials, r.Materials)
	return &clone
}
