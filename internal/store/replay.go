package store

import (
	"context"
	"fmt"

	"github.com/roach88/syncrim/internal/ir"
)

// RunState summarizes a recorded run for replay and recovery checks.
type RunState struct {
	Run        Run
	Cycles     []Cycle
	LastCycle  int   // highest recorded cycle, -1 if none
	Missing    []int // cycle numbers in [0, Run.Cycles] with no row
	Corrupt    []int // cycles whose digest does not match their banks
	IsComplete bool  // every cycle 0..Run.Cycles recorded and intact
}

// GetRunState loads a run with its cycles and checks completeness.
// A run interrupted mid-recording shows up with Missing cycles.
func (s *Store) GetRunState(ctx context.Context, runID string) (RunState, error) {
	state := RunState{LastCycle: -1}

	run, err := s.ReadRun(ctx, runID)
	if err != nil {
		return state, fmt.Errorf("get run state: %w", err)
	}
	state.Run = run

	cycles, err := s.ReadCycles(ctx, runID)
	if err != nil {
		return state, fmt.Errorf("get run state: %w", err)
	}
	state.Cycles = cycles

	seen := make(map[int]bool, len(cycles))
	for _, c := range cycles {
		seen[c.Cycle] = true
		state.LastCycle = max(state.LastCycle, c.Cycle)
		if ir.StateHash(c.Cycle, c.Signals, c.Storage) != c.StateHash {
			state.Corrupt = append(state.Corrupt, c.Cycle)
		}
	}
	for i := 0; i <= run.Cycles; i++ {
		if !seen[i] {
			state.Missing = append(state.Missing, i)
		}
	}

	state.IsComplete = len(state.Missing) == 0 && len(state.Corrupt) == 0
	return state, nil
}
