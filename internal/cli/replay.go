package cli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/syncrim/internal/netlist"
	"github.com/roach88/syncrim/internal/simulator"
	"github.com/roach88/syncrim/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID         string `json:"run_id"`
	Seq           int64  `json:"seq"`
	Source        string `json:"source"`
	Cycles        int    `json:"cycles"`
	Recorded      int    `json:"recorded"`
	IsComplete    bool   `json:"is_complete"`
	Deterministic bool   `json:"deterministic"`
	Reversible    bool   `json:"reversible"`
	Mismatches    []int  `json:"mismatches,omitempty"` // cycles whose state differs from the recording
	Corrupt       []int  `json:"corrupt,omitempty"`    // recorded cycles whose banks do not match their digest
	Error         string `json:"error,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs        []ReplayRunResult `json:"runs"`
	TotalRuns   int               `json:"total_runs"`
	AllVerified bool              `json:"all_verified"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-simulate recorded runs and verify determinism",
		Long: `Re-simulate every recorded run from its stored netlist.

Each recorded cycle must match its own digest, and each replayed cycle's
state digest must match the recording bit for bit. The
replayed simulator is then un-clocked back to cycle 0, and every
intermediate state must match again on the way down.

Exit codes:
  0 - All runs verified
  1 - Verification failed (corrupt recording, state differs or un-clocking diverged)
  2 - Command error (database not found, unknown run, etc.)

Examples:
  syncrim replay --db ./runs.db
  syncrim replay --db ./runs.db --run 0190a4c2-...
  syncrim replay --db ./runs.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay specific run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	// Open database
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	// Get run ids to process
	var runIDs []string
	if opts.RunID != "" {
		runIDs = []string{opts.RunID}
	} else {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		for _, r := range runs {
			runIDs = append(runIDs, r.ID)
		}
	}

	if len(runIDs) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, ReplayResult{
				Runs:        []ReplayRunResult{},
				AllVerified: true,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No runs found in database.")
		return nil
	}

	result := ReplayResult{
		Runs:        make([]ReplayRunResult, 0, len(runIDs)),
		TotalRuns:   len(runIDs),
		AllVerified: true,
	}

	for _, id := range runIDs {
		runResult, err := replayAndVerifyRun(ctx, st, id)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", id), err)
		}

		result.Runs = append(result.Runs, runResult)
		if !runResult.verified() {
			result.AllVerified = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// verified reports whether the recording is intact and the replay
// reproduced it both ways. A run that stopped early is verified when the
// replay stops at the same cycle.
func (r ReplayRunResult) verified() bool {
	return r.Deterministic && r.Reversible && len(r.Corrupt) == 0
}

// replayAndVerifyRun re-simulates a run, then un-clocks it back to 0.
// Store errors are returned; simulation problems are reported in the result.
func replayAndVerifyRun(ctx context.Context, st *store.Store, runID string) (ReplayRunResult, error) {
	state, err := st.GetRunState(ctx, runID)
	if err != nil {
		return ReplayRunResult{}, err
	}
	result := ReplayRunResult{
		RunID:      state.Run.ID,
		Seq:        state.Run.Seq,
		Source:     state.Run.Source,
		Cycles:     state.Run.Cycles,
		Recorded:   len(state.Cycles),
		IsComplete: state.IsComplete,
		Corrupt:    state.Corrupt,
	}

	body, err := st.LoadNetlist(ctx, state.Run.NetlistHash)
	if err != nil {
		return result, err
	}
	nl, err := netlist.Load(bytes.NewReader(body))
	if err != nil {
		result.Error = err.Error()
		return result, nil
	}
	sim, err := simulator.New(nl)
	if err != nil {
		result.Error = err.Error()
		return result, nil
	}

	recorded := make(map[int]string, len(state.Cycles))
	for _, c := range state.Cycles {
		recorded[c.Cycle] = c.StateHash
	}

	// Forward: every recorded cycle must match, and a clock may only fail
	// where the recording stops.
	replayed := []string{snapshotCycle(runID, sim).StateHash}
	for sim.Cycle() < state.Run.Cycles {
		if err := sim.Clock(); err != nil {
			result.Error = err.Error()
			break
		}
		replayed = append(replayed, snapshotCycle(runID, sim).StateHash)
	}
	for cycle, hash := range replayed {
		if want, ok := recorded[cycle]; ok && want != hash {
			result.Mismatches = append(result.Mismatches, cycle)
		}
	}
	for _, c := range state.Cycles {
		if c.Cycle >= len(replayed) {
			result.Mismatches = append(result.Mismatches, c.Cycle)
		}
	}
	result.Deterministic = len(result.Mismatches) == 0

	// Backward: un-clocking must retrace the forward states exactly.
	result.Reversible = true
	for sim.Cycle() > 0 {
		if err := sim.UnClock(); err != nil {
			result.Reversible = false
			break
		}
		if snapshotCycle(runID, sim).StateHash != replayed[sim.Cycle()] {
			result.Reversible = false
			break
		}
	}

	slog.Debug("replayed run", "run", runID, "cycles", len(replayed)-1,
		"deterministic", result.Deterministic, "reversible", result.Reversible)
	return result, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllVerified {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_DETERMINISM",
			Message: "replay verification failed",
		}
	}

	if err := encodeResponse(cmd.OutOrStdout(), response); err != nil {
		return err
	}

	if !result.AllVerified {
		// Verification failure = exit code 1
		return NewExitError(ExitFailure, "replay verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.TotalRuns)
	fmt.Fprintln(w)

	for _, run := range result.Runs {
		status := "✓"
		if !run.verified() {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Run %d: %s\n", status, run.Seq, run.RunID)
		fmt.Fprintf(w, "  Cycles: %d recorded of %d\n", run.Recorded, run.Cycles+1)

		if verbose {
			fmt.Fprintf(w, "  Source: %s\n", run.Source)
			fmt.Fprintf(w, "  Complete: %v\n", run.IsComplete)
		}
		if run.Error != "" {
			fmt.Fprintf(w, "  Stopped: %s\n", run.Error)
		}
		if len(run.Corrupt) > 0 {
			fmt.Fprintf(w, "  Warning: recorded banks do not match their digest at cycle(s) %v\n", run.Corrupt)
		}
		if len(run.Mismatches) > 0 {
			fmt.Fprintf(w, "  Warning: state differs at cycle(s) %v\n", run.Mismatches)
		}
		if !run.Reversible {
			fmt.Fprintln(w, "  Warning: un-clocking did not retrace the run!")
		}
		fmt.Fprintln(w)
	}

	if result.AllVerified {
		fmt.Fprintln(w, "✓ All runs verified")
		return nil
	}

	fmt.Fprintln(w, "✗ Replay verification failed")
	// Verification failure = exit code 1
	return NewExitError(ExitFailure, "replay verification failed")
}
