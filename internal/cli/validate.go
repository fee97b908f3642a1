package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/syncrim/internal/simulator"
)

// ValidationIssue is one problem found in a netlist.
type ValidationIssue struct {
	Code        string `json:"code"`
	ComponentID string `json:"component_id,omitempty"`
	Field       string `json:"field,omitempty"`
	Message     string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool              `json:"valid"`
	Components int               `json:"components,omitempty"`
	Signals    int               `json:"signals,omitempty"`
	Order      []string          `json:"order,omitempty"`
	Errors     []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <netlist>",
		Short: "Validate a netlist without simulating it",
		Long: `Validate a netlist and check that it can be scheduled.

Checks duplicate and empty ids, dangling inputs, port indices and
component configuration, then builds the evaluation order to reject
combinatorial loops.

Exit codes:
  0 - Netlist is valid
  1 - Netlist is invalid
  2 - Command error (file not found, unreadable, etc.)

Examples:
  syncrim validate ./counter.json
  syncrim validate ./datapath.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	st, err := LoadNetlist(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return outputValidateError(formatter, loadErr)
		}
		return outputValidationErrors(formatter, issuesFromError(err))
	}
	formatter.VerboseLog("Loaded %d component(s) from %s", st.Len(), path)

	sim, err := simulator.New(st)
	if err != nil {
		return outputValidationErrors(formatter, issuesFromError(err))
	}

	return outputValidateSuccess(formatter, ValidationResult{
		Valid:      true,
		Components: st.Len(),
		Signals:    sim.Len(),
		Order:      sim.Order(),
	})
}

// issuesFromError splits err into reportable issues.
func issuesFromError(err error) []ValidationIssue {
	if verrs := validationErrors(err); len(verrs) > 0 {
		issues := make([]ValidationIssue, len(verrs))
		for i, ve := range verrs {
			issues[i] = ValidationIssue{
				Code:        ve.Code,
				ComponentID: ve.ComponentID,
				Field:       ve.Field,
				Message:     ve.Message,
			}
		}
		return issues
	}

	var loopErr *simulator.CombinatorialLoopError
	if errors.As(err, &loopErr) {
		return []ValidationIssue{{
			Code:        ErrCodeLoop,
			ComponentID: loopErr.Cycle[0],
			Message:     loopErr.Error(),
		}}
	}
	return []ValidationIssue{{Code: errorCode(err), Message: err.Error()}}
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Netlist valid: %d component(s), %d signal(s)\n",
		result.Components, result.Signals)
	formatter.VerboseLog("Evaluation order: %s", strings.Join(result.Order, ", "))
	return nil
}

// outputValidateError outputs a load failure.
func outputValidateError(formatter *OutputFormatter, loadErr *LoadError) error {
	_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
	// Load errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, loadErr.Message, loadErr)
}

// outputValidationErrors outputs every issue found.
func outputValidationErrors(formatter *OutputFormatter, issues []ValidationIssue) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: issues,
			},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		}
		if err := encodeResponse(formatter.Writer, response); err != nil {
			return err
		}
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		switch {
		case issue.ComponentID != "" && issue.Field != "":
			fmt.Fprintf(formatter.Writer, "  %s: %s.%s: %s\n", issue.Code, issue.ComponentID, issue.Field, issue.Message)
		case issue.ComponentID != "":
			fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", issue.Code, issue.ComponentID, issue.Message)
		default:
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", issue.Code, issue.Message)
		}
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
}
