// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/eco/internal/ports/secondary"
)

// LedgerStore implements secondary.LedgerStore with SQLite.
type LedgerStore struct {
	db       *sql.DB
	location string
}

// NewLedgerStore creates a new SQLite ledger store.
// location is only used for diagnostics.
func NewLedgerStore(db *sql.DB, location string) *LedgerStore {
	return &LedgerStore{db: db, location: location}
}

// Location returns the database path.
func (s *LedgerStore) Location() string {
	return s.location
}

// Load retrieves every effort and its materials in insertion order.
func (s *LedgerStore) Load(ctx context.Context) ([]*secondary.EffortRecord, error) {
	records, err := s.loadEfforts(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*secondary.EffortRecord, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}
	if err := s.loadMaterials(ctx, byID); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *LedgerStore) loadEfforts(ctx context.Context) ([]*secondary.EffortRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, system, installation, owner, completed FROM efforts ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load efforts: %w", err)
	}
	defer rows.Close()

	records := []*secondary.EffortRecord{}
	for rows.Next() {
		record := &secondary.EffortRecord{Materials: []secondary.MaterialRecord{}}
		if err := rows.Scan(&record.ID, &record.System, &record.Installation, &record.Owner, &record.Completed); err != nil {
			return nil, fmt.Errorf("%w: failed to scan effort: %v", secondary.ErrStorageCorrupt, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load efforts: %w", err)
	}

	return records, nil
}

func (s *LedgerStore) loadMaterials(ctx context.Context, byID map[string]*secondary.EffortRecord) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT effort_id, commodity, quantity FROM effort_materials ORDER BY effort_id, position",
	)
	if err != nil {
		return fmt.Errorf("failed to load materials: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			effortID string
			material secondary.MaterialRecord
		)
		if err := rows.Scan(&effortID, &material.Commodity, &material.Quantity); err != nil {
			return fmt.Errorf("%w: failed to scan material: %v", secondary.ErrStorageCorrupt, err)
		}
		record, ok := byID[effortID]
		if !ok {
			return fmt.Errorf("%w: material %s references unknown effort %s", secondary.ErrStorageCorrupt, material.Commodity, effortID)
		}
		record.Materials = append(record.Materials, material)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to load materials: %w", err)
	}

	return nil
}

// Save replaces the stored ledger with records in a single transaction.
func (s *LedgerStore) Save(ctx context.Context, records []*secondary.EffortRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", secondary.ErrStorageWrite, err)
	}
	defer tx.Rollback() // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM effort_materials"); err != nil {
		return fmt.Errorf("%w: failed to clear materials: %v", secondary.ErrStorageWrite, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM efforts"); err != nil {
		return fmt.Errorf("%w: failed to clear efforts: %v", secondary.ErrStorageWrite, err)
	}

	effortStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO efforts (position, id, system, installation, owner, completed) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("%w: failed to prepare effort insert: %v", secondary.ErrStorageWrite, err)
	}
	defer effortStmt.Close()

	materialStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO effort_materials (effort_id, position, commodity, quantity) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("%w: failed to prepare material insert: %v", secondary.ErrStorageWrite, err)
	}
	defer materialStmt.Close()

	for i, record := range records {
		_, err := effortStmt.ExecContext(ctx, i, record.ID, record.System, record.Installation, record.Owner, record.Completed)
		if err != nil {
			return fmt.Errorf("%w: failed to save effort %s: %v", secondary.ErrStorageWrite, record.ID, err)
		}
		for j, m := range record.Materials {
			if _, err := materialStmt.ExecContext(ctx, record.ID, j, m.Commodity, m.Quantity); err != nil {
				return fmt.Errorf("%w: failed to save material %s of effort %s: %v", secondary.ErrStorageWrite, m.Commodity, record.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit ledger: %v", secondary.ErrStorageWrite, err)
	}
	return nil
}
