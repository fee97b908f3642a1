package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/syncrim/internal/ir"
	"github.com/roach88/syncrim/internal/simulator"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] step %d %s -> cycle %d", i, ev.Step, ev.Op, ev.Cycle)
		if ev.Error != "" {
			fmt.Fprintf(&buf, " error: %s", ev.Error)
		}
		buf.WriteByte('\n')
	}

	return buf.String()
}

// evaluateAssertion dispatches on the assertion type. sim is nil when
// construction failed.
func evaluateAssertion(trace []TraceEvent, sim *simulator.Simulator, a Assertion) error {
	switch a.Type {
	case AssertProbeSequence:
		return assertProbeSequence(trace, a)
	case AssertFinalCycle:
		return assertFinalCycle(trace, a)
	case AssertHistoryLen:
		return assertHistoryLen(trace, sim, a)
	case AssertTraceCount:
		return assertTraceCount(trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertProbeSequence checks the probe's readings across successful events.
func assertProbeSequence(trace []TraceEvent, a Assertion) error {
	var got []ir.Signal
	for _, ev := range trace {
		if ev.Error != "" {
			continue
		}
		v, ok := ev.Probes[a.Probe]
		if !ok {
			return &AssertionError{
				Type:     AssertProbeSequence,
				Expected: fmt.Sprintf("probe %s in every event", a.Probe),
				Actual:   fmt.Sprintf("missing at step %d", ev.Step),
				Trace:    trace,
			}
		}
		got = append(got, v)
	}

	if !slices.Equal(got, a.Values) {
		return &AssertionError{
			Type:     AssertProbeSequence,
			Expected: fmt.Sprintf("%s = %v", a.Probe, a.Values),
			Actual:   fmt.Sprintf("%s = %v", a.Probe, got),
			Trace:    trace,
		}
	}
	return nil
}

func assertFinalCycle(trace []TraceEvent, a Assertion) error {
	if len(trace) == 0 {
		return &AssertionError{
			Type:     AssertFinalCycle,
			Expected: fmt.Sprintf("cycle %d", a.Cycle),
			Actual:   "empty trace",
		}
	}
	if last := trace[len(trace)-1]; last.Cycle != a.Cycle {
		return &AssertionError{
			Type:     AssertFinalCycle,
			Expected: fmt.Sprintf("cycle %d", a.Cycle),
			Actual:   fmt.Sprintf("cycle %d", last.Cycle),
			Trace:    trace,
		}
	}
	return nil
}

func assertHistoryLen(trace []TraceEvent, sim *simulator.Simulator, a Assertion) error {
	actual := "no simulator"
	if sim != nil {
		if sim.HistoryLen() == a.Count {
			return nil
		}
		actual = fmt.Sprintf("%d", sim.HistoryLen())
	}
	return &AssertionError{
		Type:     AssertHistoryLen,
		Expected: fmt.Sprintf("%d", a.Count),
		Actual:   actual,
		Trace:    trace,
	}
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	n := 0
	for _, ev := range trace {
		if ev.Op == a.Op && ev.Error == "" {
			n++
		}
	}
	if n != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%s %d times", a.Op, a.Count),
			Actual:   fmt.Sprintf("%s %d times", a.Op, n),
			Trace:    trace,
		}
	}
	return nil
}

// checkProbes compares expected probe values against an event.
func checkProbes(ev TraceEvent, expect map[string]ir.Signal) []string {
	var errs []string
	for _, id := range sortedKeys(expect) {
		got, ok := ev.Probes[id]
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("step %d: no probe %q", ev.Step, id))
		case got != expect[id]:
			errs = append(errs, fmt.Sprintf("step %d: cycle %d: probe %s = %d, want %d",
				ev.Step, ev.Cycle, id, got, expect[id]))
		}
	}
	return errs
}

func sortedKeys(m map[string]ir.Signal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
