package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/eco/internal/ports/secondary"
)

// ErrMigrationTargetNotEmpty is returned when the destination ledger already
// holds efforts and overwriting was not requested.
var ErrMigrationTargetNotEmpty = errors.New("destination ledger is not empty")

// MigrationResult describes a completed ledger copy.
type MigrationResult struct {
	From    string
	To      string
	Efforts int
}

// MigrateLedger copies every effort from one store into another, preserving
// order and completion flags. The destination is replaced in full.
func MigrateLedger(ctx context.Context, from, to secondary.LedgerStore, overwrite bool, logger *slog.Logger) (*MigrationResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if from.Location() == to.Location() {
		return nil, fmt.Errorf("source and destination are both %s", from.Location())
	}

	records, err := from.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger from %s: %w", from.Location(), err)
	}

	if !overwrite {
		existing, err := to.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect %s: %w", to.Location(), err)
		}
		if len(existing) > 0 {
			return nil, fmt.Errorf("%w: %s holds %d efforts", ErrMigrationTargetNotEmpty, to.Location(), len(existing))
		}
	}

	if err := to.Save(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to save ledger to %s: %w", to.Location(), err)
	}

	logger.Info("ledger migrated", "from", from.Location(), "to", to.Location(), "efforts", len(records))
	return &MigrationResult{From: from.Location(), To: to.Location(), Efforts: len(records)}, nil
}
