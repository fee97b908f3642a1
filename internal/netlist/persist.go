package netlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/roach88/syncrim/internal/component"
)

// Save writes the store as an indented JSON array of tagged records.
func (s *Store) Save(w io.Writer) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("save netlist: %w", err)
	}
	buf.WriteByte('\n')
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("save netlist: %w", err)
	}
	return nil
}

// MarshalJSON renders the store as a compact JSON array of tagged records.
func (s *Store) MarshalJSON() ([]byte, error) {
	records := make([]json.RawMessage, len(s.components))
	for i, c := range s.components {
		rec, err := component.Encode(c)
		if err != nil {
			return nil, fmt.Errorf("save netlist: %w", err)
		}
		records[i] = rec
	}
	return json.Marshal(records)
}

// Load reads a netlist written by Save and validates it.
//
// Unknown discriminants fail with component.UnsupportedKindError and
// malformed records with component.DecodeError; both abort the load.
// Structural problems fail with ValidationErrors.
func Load(r io.Reader) (*Store, error) {
	var records []json.RawMessage
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("load netlist: %w", err)
	}
	return FromRecords(records)
}

// FromRecords builds and validates a store from tagged records.
func FromRecords(records []json.RawMessage) (*Store, error) {
	s := &Store{index: make(map[string]Handle)}
	var errs ValidationErrors

	for i, rec := range records {
		c, err := component.Decode(rec)
		if err != nil {
			return nil, fmt.Errorf("load netlist: record %d: %w", i, err)
		}
		if _, err := s.Add(c); err != nil {
			ve, ok := err.(*ValidationError)
			if !ok {
				return nil, err
			}
			errs = append(errs, ve)
		}
	}

	if err := s.Validate(); err != nil {
		errs = append(errs, err.(ValidationErrors)...)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("load netlist: %w", errs)
	}
	return s, nil
}

// SaveFile writes the store to path.
func (s *Store) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save netlist: %w", err)
	}
	if err := s.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads and validates the netlist at path.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load netlist: %w", err)
	}
	defer f.Close()
	return Load(f)
}
