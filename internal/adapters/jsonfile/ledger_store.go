// Package jsonfile contains a single-file JSON implementation of the ledger store.
//
// The document maps effort IDs to effort objects and keeps both efforts and
// materials in insertion order:
//
//	{
//	    "1": {
//	        "system": "HIP 1234",
//	        "installation": "Coriolis",
//	        "owner": "CMDR Vale",
//	        "materials": {
//	            "STEEL": 12500
//	        },
//	        "completed": false
//	    }
//	}
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/example/eco/internal/ports/secondary"
)

// LedgerStore implements secondary.LedgerStore on a JSON file.
type LedgerStore struct {
	path string
}

// NewLedgerStore creates a JSON ledger store at path.
// The file and its directory are created on first save.
func NewLedgerStore(path string) *LedgerStore {
	return &LedgerStore{path: path}
}

// Location returns the ledger file path.
func (s *LedgerStore) Location() string {
	return s.path
}

// Load reads the ledger. A missing file is an empty ledger.
func (s *LedgerStore) Load(ctx context.Context) ([]*secondary.EffortRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []*secondary.EffortRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger %s: %w", s.path, err)
	}

	records, err := decodeLedger(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", secondary.ErrStorageCorrupt, s.path, err)
	}
	return records, nil
}

// Save replaces the ledger file. The document is written to a temporary file
// in the same directory and renamed over the old one, so readers never see a
// partial ledger.
func (s *LedgerStore) Save(ctx context.Context, records []*secondary.EffortRecord) error {
	data, err := encodeLedger(records)
	if err != nil {
		return fmt.Errorf("%w: failed to encode ledger: %v", secondary.ErrStorageWrite, err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %v", secondary.ErrStorageWrite, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close ledger: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set ledger permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}

// fileEffort is the on-disk shape of one effort.
// Pointers distinguish missing fields from zero values.
type fileEffort struct {
	System       *string         `json:"system"`
	Installation *string         `json:"installation"`
	Owner        *string         `json:"owner"`
	Materials    json.RawMessage `json:"materials"`
	Completed    *bool           `json:"completed"`
}

func encodeLedger(records []*secondary.EffortRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(&buf, r.ID)
		buf.WriteString(`:{"system":`)
		writeString(&buf, r.System)
		buf.WriteString(`,"installation":`)
		writeString(&buf, r.Installation)
		buf.WriteString(`,"owner":`)
		writeString(&buf, r.Owner)
		buf.WriteString(`,"materials":{`)
		for j, m := range r.Materials {
			if j > 0 {
				buf.WriteByte(',')
			}
			writeString(&buf, m.Commodity)
			buf.WriteByte(':')
			buf.WriteString(strconv.Itoa(m.Quantity))
		}
		buf.WriteString(`},"completed":`)
		buf.WriteString(strconv.FormatBool(r.Completed))
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) {
	// Marshal of a string cannot fail.
	b, _ := json.Marshal(s)
	buf.Write(b)
}

func decodeLedger(data []byte) ([]*secondary.EffortRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	records := []*secondary.EffortRecord{}
	seen := make(map[string]bool)
	err := decodeObject(dec, func(id string) error {
		if seen[id] {
			return fmt.Errorf("duplicate effort ID %q", id)
		}
		seen[id] = true

		var raw fileEffort
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("effort %q: %w", id, err)
		}
		record, err := raw.toRecord(id)
		if err != nil {
			return fmt.Errorf("effort %q: %w", id, err)
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after ledger object")
	}
	return records, nil
}

func (f fileEffort) toRecord(id string) (*secondary.EffortRecord, error) {
	if f.System == nil || f.Installation == nil || f.Owner == nil {
		return nil, fmt.Errorf("system, installation and owner are required")
	}

	materials, err := decodeMaterials(f.Materials)
	if err != nil {
		return nil, fmt.Errorf("materials: %w", err)
	}

	record := &secondary.EffortRecord{
		ID:           id,
		System:       *f.System,
		Installation: *f.Installation,
		Owner:        *f.Owner,
		Materials:    materials,
	}
	if f.Completed != nil {
		record.Completed = *f.Completed
	}
	return record, nil
}

// decodeMaterials reads a commodity → quantity object in document order.
// A commodity listed twice keeps its first position and its last quantity.
// Zero quantities are dropped.
func decodeMaterials(raw json.RawMessage) ([]secondary.MaterialRecord, error) {
	materials := []secondary.MaterialRecord{}
	if len(raw) == 0 {
		return materials, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	index := make(map[string]int)
	err := decodeObject(dec, func(commodity string) error {
		var num json.Number
		if err := dec.Decode(&num); err != nil {
			return fmt.Errorf("%q: %w", commodity, err)
		}
		qty, err := strconv.Atoi(num.String())
		if err != nil || qty < 0 {
			return fmt.Errorf("%q: quantity %s is not a non-negative integer", commodity, num)
		}

		if i, ok := index[commodity]; ok {
			materials[i].Quantity = qty
			return nil
		}
		index[commodity] = len(materials)
		materials = append(materials, secondary.MaterialRecord{Commodity: commodity, Quantity: qty})
		return nil
	})
	if err != nil {
		return nil, err
	}

	kept := materials[:0]
	for _, m := range materials {
		if m.Quantity > 0 {
			kept = append(kept, m)
		}
	}
	return kept, nil
}

// decodeObject walks a JSON object, calling field for each key. field must
// consume the key's value from dec.
func decodeObject(dec *json.Decoder, field func(key string) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := field(key); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
