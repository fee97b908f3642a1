package store

import (
	"context"
	"fmt"

	"github.com/roach88/syncrim/internal/ir"
)

// SaveNetlist stores a netlist body under its content hash.
// Uses ON CONFLICT(hash) DO NOTHING: equal hashes mean equal netlists.
func (s *Store) SaveNetlist(ctx context.Context, hash string, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO netlists (hash, body, format_version)
		VALUES (?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, string(body), ir.FormatVersion)
	if err != nil {
		return fmt.Errorf("save netlist: %w", err)
	}
	return nil
}

// WriteRun inserts a run and returns it with its assigned seq.
//
// Note: The netlist referenced by NetlistHash must exist (foreign key constraint).
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return run, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`,
	).Scan(&run.Seq); err != nil {
		return run, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, netlist_hash, source, engine_version, cycles)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.NetlistHash,
		run.Source,
		run.EngineVersion,
		run.Cycles,
	)
	if err != nil {
		return run, fmt.Errorf("write run %s: %w", run.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return run, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}

// WriteCycle inserts one cycle snapshot.
// Uses ON CONFLICT DO NOTHING so a re-recorded cycle is ignored.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteCycle(ctx context.Context, c Cycle) error {
	signals, err := marshalSignals(c.Signals)
	if err != nil {
		return fmt.Errorf("write cycle %d: %w", c.Cycle, err)
	}
	storage, err := marshalSignals(c.Storage)
	if err != nil {
		return fmt.Errorf("write cycle %d: %w", c.Cycle, err)
	}
	probes, err := marshalProbes(c.Probes)
	if err != nil {
		return fmt.Errorf("write cycle %d: %w", c.Cycle, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cycles (run_id, cycle, state_hash, signals, storage, probes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		c.RunID,
		c.Cycle,
		c.StateHash,
		signals,
		storage,
		probes,
	)
	if err != nil {
		return fmt.Errorf("write cycle %d: %w", c.Cycle, err)
	}
	return nil
}
