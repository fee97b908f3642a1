package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/syncrim/internal/simulator"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Cycles int
}

// InspectResult holds component descriptions at one cycle.
type InspectResult struct {
	Cycle      int                     `json:"cycle"`
	Components []simulator.Description `json:"components"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <netlist> [component-id...]",
		Short: "Describe components after a number of cycles",
		Long: `Describe components' inputs, outputs and storage.

The netlist is clocked --cycles times first. Without ids every
component is described, in declaration order.

Example:
  syncrim inspect ./regfile.hcl reg_file --cycles 3`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectComponents(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Cycles, "cycles", 0, "clock edges to simulate before describing")

	return cmd
}

func inspectComponents(opts *InspectOptions, path string, ids []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Cycles < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--cycles must be >= 0, got %d", opts.Cycles))
	}

	st, err := LoadNetlist(path)
	if err != nil {
		return loadFailure(formatter, err)
	}
	sim, err := simulator.New(st)
	if err != nil {
		return formatter.Fail(ExitFailure, "failed to build simulator", err)
	}
	if err := sim.Run(opts.Cycles); err != nil {
		return formatter.Fail(ExitFailure, "simulation failed", err)
	}

	if len(ids) == 0 {
		for _, c := range sim.Components() {
			ids = append(ids, c.ComponentID())
		}
	}

	result := InspectResult{Cycle: sim.Cycle(), Components: make([]simulator.Description, 0, len(ids))}
	for _, id := range ids {
		d, err := sim.Describe(id)
		if err != nil {
			return formatter.Fail(ExitCommandError, "cannot describe component", err)
		}
		result.Components = append(result.Components, d)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Cycle %d\n\n", result.Cycle)
	for _, d := range result.Components {
		fmt.Fprintf(w, "%s (%s, %s)\n", d.ID, d.Kind, d.OutType)
		fmt.Fprintf(w, "  inputs:  %v\n", d.Inputs)
		fmt.Fprintf(w, "  outputs: %v\n", d.Outputs)
		if len(d.Storage) > 0 {
			fmt.Fprintf(w, "  storage: %v\n", d.Storage)
		}
		if d.Summary != "" {
			fmt.Fprintf(w, "  %s\n", d.Summary)
		}
	}
	return nil
}
