package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/syncrim/internal/simulator"
	"github.com/roach88/syncrim/internal/store"
	"github.com/roach88/syncrim/internal/waveform"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
	Probes   []string // optional - report these probes only
	Plot     string   // optional - waveform image path
}

// TraceResult holds the recorded timeline of one run.
type TraceResult struct {
	Run      store.Run     `json:"run"`
	Complete bool          `json:"complete"`
	Missing  []int         `json:"missing,omitempty"`
	Timeline []CycleResult `json:"timeline"`
	Plot     string        `json:"plot,omitempty"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the probe timeline of a recorded run",
		Long: `Show the probe values of a recorded run, cycle by cycle.

The output includes:
- Run: id, sequence number, netlist hash and source
- Timeline: probe readings after every recorded cycle
- Completeness: cycles missing from an interrupted recording

With --plot the timeline is also drawn as a waveform image; the file
extension picks the format (png, svg, pdf, ...).

Examples:
  syncrim trace --db ./runs.db --run 0190a4c2-...
  syncrim trace --db ./runs.db --run 0190a4c2-... --probe p_count
  syncrim trace --db ./runs.db --run 0190a4c2-... --plot wave.png`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to trace (required)")
	_ = cmd.MarkFlagRequired("run")
	cmd.Flags().StringSliceVar(&opts.Probes, "probe", nil, "filter to specific probe ids")
	cmd.Flags().StringVar(&opts.Plot, "plot", "", "write a waveform image to this path")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	// Open database
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	state, err := st.GetRunState(ctx, opts.RunID)
	if errors.Is(err, store.ErrNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to get run state", err)
	}

	result := TraceResult{
		Run:      state.Run,
		Complete: state.IsComplete,
		Missing:  state.Missing,
		Timeline: buildTimeline(state.Cycles, opts.Probes),
	}

	if opts.Plot != "" {
		title := fmt.Sprintf("run %d (%s)", state.Run.Seq, state.Run.Source)
		if err := waveform.Save(opts.Plot, title, filterSeries(waveform.FromCycles(state.Cycles), opts.Probes)); err != nil {
			return WrapExitError(ExitCommandError, "failed to plot waveform", err)
		}
		result.Plot = opts.Plot
	}

	if opts.Format == "json" {
		formatter := newFormatter(opts.RootOptions, cmd)
		return formatter.Success(result)
	}
	return outputTraceText(cmd, result)
}

// buildTimeline converts recorded cycles to probe readings.
func buildTimeline(cycles []store.Cycle, probes []string) []CycleResult {
	timeline := make([]CycleResult, 0, len(cycles))
	for _, c := range cycles {
		readings := make([]simulator.ProbeReading, len(c.Probes))
		for i, p := range c.Probes {
			readings[i] = simulator.ProbeReading{ID: p.ID, Value: p.Value}
		}
		timeline = append(timeline, CycleResult{
			Cycle:  c.Cycle,
			Probes: filterProbes(readings, probes),
		})
	}
	return timeline
}

// filterSeries keeps the series named in ids, or all when ids is empty.
func filterSeries(series []waveform.Series, ids []string) []waveform.Series {
	if len(ids) == 0 {
		return series
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []waveform.Series
	for _, s := range series {
		if want[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// outputTraceText outputs the trace result as text.
func outputTraceText(cmd *cobra.Command, result TraceResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Run %d: %s\n", result.Run.Seq, result.Run.ID)
	fmt.Fprintf(w, "Netlist: %s\n", result.Run.NetlistHash)
	fmt.Fprintf(w, "Source: %s\n", result.Run.Source)
	fmt.Fprintf(w, "Cycles: %d recorded of %d %s\n", len(result.Timeline), result.Run.Cycles+1, completeStatus(result.Complete))
	if len(result.Missing) > 0 {
		fmt.Fprintf(w, "Missing: %v\n", result.Missing)
	}
	fmt.Fprintln(w)

	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "No cycles recorded.")
	}
	for _, c := range result.Timeline {
		fmt.Fprintf(w, "  cycle %d:%s\n", c.Cycle, formatReadings(c.Probes))
	}

	if result.Plot != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Wrote waveform to %s\n", result.Plot)
	}
	return nil
}

func completeStatus(isComplete bool) string {
	if isComplete {
		return "✓"
	}
	return "✗ (incomplete)"
}
