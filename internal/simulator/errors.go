package simulator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/syncrim/internal/component"
	"github.com/roach88/syncrim/internal/netlist"
)

// ErrHistoryUnderflow is returned by UnClock at cycle 0 or when the
// history limit has discarded older snapshots.
var ErrHistoryUnderflow = errors.New("history underflow: no earlier cycle to restore")

// CombinatorialLoopError reports a cycle that passes through no latched
// input.
type CombinatorialLoopError struct {
	// Cycle lists the component ids along the loop, first id repeated last.
	Cycle []string
}

// Error implements the error interface.
func (e *CombinatorialLoopError) Error() string {
	return fmt.Sprintf("combinatorial loop: %s", strings.Join(e.Cycle, " -> "))
}

// IsLoopError returns true if err is or wraps a CombinatorialLoopError.
func IsLoopError(err error) bool {
	var le *CombinatorialLoopError
	return errors.As(err, &le)
}

// IsIndexError returns true if err is or wraps a component.IndexError.
func IsIndexError(err error) bool {
	return component.IsIndexError(err)
}

// IsUnknownComponent returns true if err is or wraps a
// netlist.UnknownComponentError.
func IsUnknownComponent(err error) bool {
	return netlist.IsUnknownComponent(err)
}

// IsHistoryUnderflow returns true if err is ErrHistoryUnderflow.
func IsHistoryUnderflow(err error) bool {
	return errors.Is(err, ErrHistoryUnderflow)
}
