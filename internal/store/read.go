package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a netlist or run does not exist.
var ErrNotFound = errors.New("not found")

// LoadNetlist returns the netlist body stored under hash.
func (s *Store) LoadNetlist(ctx context.Context, hash string) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM netlists WHERE hash = ?`, hash,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load netlist %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load netlist %s: %w", hash, err)
	}
	return []byte(body), nil
}

// ReadRun returns the run with the given id.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq, netlist_hash, source, engine_version, cycles
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Seq, &run.NetlistHash, &run.Source, &run.EngineVersion, &run.Cycles)
	if errors.Is(err, sql.ErrNoRows) {
		return run, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return run, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns every run ordered by seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, netlist_hash, source, engine_version, cycles
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Seq, &run.NetlistHash, &run.Source, &run.EngineVersion, &run.Cycles); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadCycles returns the cycles of a run ordered by cycle number.
//
// Returns an empty slice (not nil) if nothing was recorded.
func (s *Store) ReadCycles(ctx context.Context, runID string) ([]Cycle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, cycle, state_hash, signals, storage, probes
		FROM cycles
		WHERE run_id = ?
		ORDER BY cycle ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	cycles := []Cycle{}
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycles: %w", err)
	}
	return cycles, nil
}

func scanCycle(rows *sql.Rows) (Cycle, error) {
	var (
		c                         Cycle
		signals, storage, probes string
	)
	if err := rows.Scan(&c.RunID, &c.Cycle, &c.StateHash, &signals, &storage, &probes); err != nil {
		return c, fmt.Errorf("scan cycle: %w", err)
	}

	var err error
	if c.Signals, err = unmarshalSignals(signals); err != nil {
		return c, fmt.Errorf("cycle %d: %w", c.Cycle, err)
	}
	if c.Storage, err = unmarshalSignals(storage); err != nil {
		return c, fmt.Errorf("cycle %d: %w", c.Cycle, err)
	}
	if c.Probes, err = unmarshalProbes(probes); err != nil {
		return c, fmt.Errorf("cycle %d: %w", c.Cycle, err)
	}
	return c, nil
}
