package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/syncrim/internal/component"
	"github.com/roach88/syncrim/internal/ir"
	"github.com/roach88/syncrim/internal/netlist"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// KindCount is the number of components of one kind.
type KindCount struct {
	Kind  component.Kind `json:"kind"`
	Count int            `json:"count"`
}

// CompilationResult summarizes a compiled netlist.
type CompilationResult struct {
	Components int             `json:"components"`
	Kinds      []KindCount     `json:"kinds"`
	Hash       string          `json:"hash"`
	Output     string          `json:"output,omitempty"`
	Netlist    json.RawMessage `json:"netlist,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <src>",
		Short: "Compile a CUE or HCL netlist to the native JSON form",
		Long: `Compile a netlist written in CUE or HCL to the native JSON save form.

The source is validated the same way a JSON netlist is. The output is
the form the simulator, the recorder and every other command read, and
its content hash (geometry excluded) is printed.

Examples:
  syncrim compile ./datapath.cue -o datapath.json
  syncrim compile ./regfile.hcl --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, src string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := LoadNetlist(src)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return outputCompileError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputCompileError(formatter, errorCode(err), err.Error(), issuesFromError(err))
	}
	formatter.VerboseLog("Loaded %d component(s) from %s", st.Len(), src)

	data, err := st.MarshalJSON()
	if err != nil {
		return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("encoding netlist: %v", err), nil)
	}
	hash, err := ir.NetlistHash(data)
	if err != nil {
		return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("hashing netlist: %v", err), nil)
	}

	result := &CompilationResult{
		Components: st.Len(),
		Kinds:      countKinds(st),
		Hash:       hash,
	}

	// Write to file if --output specified, otherwise inline the netlist
	// in JSON output
	if opts.Output != "" {
		if err := st.SaveFile(opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
		result.Output = opts.Output
	} else {
		result.Netlist = data
	}

	return outputCompileSuccess(formatter, result)
}

// countKinds tallies components per kind in order of first appearance.
func countKinds(st *netlist.Store) []KindCount {
	var counts []KindCount
	index := make(map[component.Kind]int)
	for _, c := range st.Components() {
		i, ok := index[c.Kind()]
		if !ok {
			i = len(counts)
			index[c.Kind()] = i
			counts = append(counts, KindCount{Kind: c.Kind()})
		}
		counts[i].Count++
	}
	return counts
}

// outputCompileSuccess outputs the compilation summary.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d component(s)\n\n", result.Components)
	for _, kc := range result.Kinds {
		fmt.Fprintf(formatter.Writer, "  %s: %d\n", kc.Kind, kc.Count)
	}
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "Hash: %s\n", result.Hash)

	if result.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote netlist to %s\n", result.Output)
	}
	return nil
}

// outputCompileError outputs a compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
