package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/syncrim/internal/ir"
	"github.com/roach88/syncrim/internal/netlist"
	"github.com/roach88/syncrim/internal/simulator"
	"github.com/roach88/syncrim/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Cycles       int
	Database     string // optional - record the run when set
	Probes       []string
	HistoryLimit int

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs store.RunIDGenerator
}

// CycleResult is the probe readings after one cycle settled.
type CycleResult struct {
	Cycle  int                      `json:"cycle"`
	Probes []simulator.ProbeReading `json:"probes"`
}

// RunResult holds the outcome of a simulation run.
type RunResult struct {
	RunID       string        `json:"run_id,omitempty"`
	NetlistHash string        `json:"netlist_hash"`
	Cycles      []CycleResult `json:"cycles"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <netlist>",
		Short: "Simulate a netlist for a number of cycles",
		Long: `Simulate a netlist, printing probe values after every cycle.

Cycle 0 is the settled initial state; each further cycle is one clock
edge. With --db the netlist, the run and the full state of every cycle
are recorded to SQLite (created if it doesn't exist) for replay and
trace.

Exit codes:
  0 - Simulation completed
  1 - Invalid netlist or simulation error (e.g. select out of range)
  2 - Command error (file not found, database error, etc.)

Examples:
  syncrim run ./counter.json --cycles 10
  syncrim run ./counter.json --cycles 10 --probe p_count
  syncrim run ./datapath.cue --cycles 100 --db ./runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Cycles, "cycles", 1, "number of clock edges to simulate")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database to record the run")
	cmd.Flags().StringSliceVar(&opts.Probes, "probe", nil, "probe ids to report (default all)")
	cmd.Flags().IntVar(&opts.HistoryLimit, "history-limit", 0, "maximum cycles kept for un-clocking (0 = unbounded)")

	return cmd
}

func runSimulation(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Cycles < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--cycles must be >= 0, got %d", opts.Cycles))
	}

	st, err := LoadNetlist(path)
	if err != nil {
		return loadFailure(formatter, err)
	}
	data, hash, err := netlistIdentity(st)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash netlist", err)
	}

	var simOpts []simulator.Option
	if opts.HistoryLimit > 0 {
		simOpts = append(simOpts, simulator.WithHistoryLimit(opts.HistoryLimit))
	}
	sim, err := simulator.New(st, simOpts...)
	if err != nil {
		return formatter.Fail(ExitFailure, "failed to build simulator", err)
	}
	if err := checkProbes(sim, opts.Probes); err != nil {
		return formatter.Fail(ExitCommandError, "invalid --probe", err)
	}

	result := RunResult{NetlistHash: hash, Cycles: make([]CycleResult, 0, opts.Cycles+1)}

	var rec *recorder
	if opts.Database != "" {
		db, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()

		ids := opts.RunIDs
		if ids == nil {
			ids = store.UUIDv7Generator{}
		}
		rec, err = startRecording(ctx, db, ids, path, hash, data, opts.Cycles)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		result.RunID = rec.runID
		formatter.VerboseLog("Recording run %s to %s", rec.runID, opts.Database)
	}

	step := func() error {
		result.Cycles = append(result.Cycles, CycleResult{
			Cycle:  sim.Cycle(),
			Probes: filterProbes(sim.Probes(), opts.Probes),
		})
		if rec == nil {
			return nil
		}
		return rec.record(ctx, sim)
	}

	if err := step(); err != nil {
		return WrapExitError(ExitCommandError, "failed to record cycle 0", err)
	}
	for i := 0; i < opts.Cycles; i++ {
		if err := sim.Clock(); err != nil {
			if formatter.Format != "json" {
				_ = outputRunResult(formatter, result)
			}
			return formatter.Fail(ExitFailure, "simulation failed", err)
		}
		if err := step(); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to record cycle %d", sim.Cycle()), err)
		}
	}

	return outputRunResult(formatter, result)
}

// loadFailure reports a netlist that could not be loaded. A missing or
// unreadable file is a command error; an invalid netlist is a failure.
func loadFailure(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return WrapExitError(ExitCommandError, loadErr.Message, err)
	}
	return formatter.Fail(ExitFailure, "invalid netlist", err)
}

// netlistIdentity returns the save form of st and its content hash.
func netlistIdentity(st *netlist.Store) ([]byte, string, error) {
	data, err := st.MarshalJSON()
	if err != nil {
		return nil, "", err
	}
	hash, err := ir.NetlistHash(data)
	if err != nil {
		return nil, "", err
	}
	return data, hash, nil
}

// checkProbes verifies every requested id names a Probe.
func checkProbes(sim *simulator.Simulator, ids []string) error {
	for _, id := range ids {
		if _, err := sim.ProbeValue(id); err != nil {
			return err
		}
	}
	return nil
}

// filterProbes keeps the readings named in ids, or all when ids is empty.
func filterProbes(readings []simulator.ProbeReading, ids []string) []simulator.ProbeReading {
	if len(ids) == 0 {
		return readings
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]simulator.ProbeReading, 0, len(ids))
	for _, r := range readings {
		if want[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

// recorder writes one run's cycles to the store.
type recorder struct {
	db    *store.Store
	runID string
}

// startRecording stores the netlist and the run header.
func startRecording(ctx context.Context, db *store.Store, ids store.RunIDGenerator, source, hash string, netlistJSON []byte, cycles int) (*recorder, error) {
	if err := db.SaveNetlist(ctx, hash, netlistJSON); err != nil {
		return nil, err
	}
	run, err := db.WriteRun(ctx, store.Run{
		ID:            ids.Generate(),
		NetlistHash:   hash,
		Source:        source,
		EngineVersion: ir.EngineVersion,
		Cycles:        cycles,
	})
	if err != nil {
		return nil, err
	}
	return &recorder{db: db, runID: run.ID}, nil
}

// record writes the simulator's current cycle.
func (r *recorder) record(ctx context.Context, sim *simulator.Simulator) error {
	return r.db.WriteCycle(ctx, snapshotCycle(r.runID, sim))
}

// snapshotCycle captures the simulator's current state as a store.Cycle.
func snapshotCycle(runID string, sim *simulator.Simulator) store.Cycle {
	state := sim.State()
	readings := sim.Probes()
	probes := make([]store.Probe, len(readings))
	for i, r := range readings {
		probes[i] = store.Probe{ID: r.ID, Value: r.Value}
	}
	return store.NewCycle(runID, state.Cycle, state.Signals, state.Storage, probes)
}

// outputRunResult outputs the probe readings for every simulated cycle.
func outputRunResult(formatter *OutputFormatter, result RunResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if result.RunID != "" {
		fmt.Fprintf(w, "Run: %s\n", result.RunID)
	}
	fmt.Fprintf(w, "Netlist: %s\n\n", result.NetlistHash)

	for _, c := range result.Cycles {
		fmt.Fprintf(w, "cycle %d:%s\n", c.Cycle, formatReadings(c.Probes))
	}
	return nil
}

// formatReadings renders readings as " id=value" pairs.
func formatReadings(readings []simulator.ProbeReading) string {
	var b strings.Builder
	for _, r := range readings {
		fmt.Fprintf(&b, " %s=%d", r.ID, r.Value)
	}
	return b.String()
}
