package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/syncrim/internal/compiler"
	"github.com/roach88/syncrim/internal/ir"
	"github.com/roach88/syncrim/internal/netlist"
	"github.com/roach88/syncrim/internal/simulator"
)

// errorClasses maps expect_error keywords to typed-error checks. Any other
// expect_error value is matched as a substring of the error message.
var errorClasses = map[string]func(error) bool{
	"index":             simulator.IsIndexError,
	"loop":              simulator.IsLoopError,
	"history_underflow": simulator.IsHistoryUnderflow,
	"unknown_component": simulator.IsUnknownComponent,
	"validation":        netlist.IsValidationError,
}

func matchError(err error, want string) bool {
	if is, ok := errorClasses[want]; ok {
		return is(err)
	}
	return strings.Contains(err.Error(), want)
}

// Harness executes one scenario against a simulator.
type Harness struct {
	sim    *simulator.Simulator
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Load the netlist (file or inline records)
// 2. Build the simulator and check cycle-0 expectations
// 3. Execute steps, recording one trace event per operation
// 4. Evaluate assertions over the trace
//
// The returned error covers problems with the scenario itself (unreadable
// netlist); simulation failures are reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	// Validation failures are simulation outcomes a scenario may expect;
	// anything else means the scenario itself is broken.
	store, loadErr := loadNetlist(scenario)
	if loadErr != nil && !netlist.IsValidationError(loadErr) {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, loadErr)
	}

	h := &Harness{
		// Suppress logs in tests
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	result := NewResult()

	if !h.build(store, loadErr, scenario, result) {
		h.evaluateAssertions(scenario, result)
		return result, nil
	}

	for i, step := range scenario.Steps {
		if !h.executeStep(i+1, step, result) {
			break
		}
	}

	h.evaluateAssertions(scenario, result)
	return result, nil
}

// loadNetlist compiles the scenario's netlist file or inline records.
func loadNetlist(s *Scenario) (*netlist.Store, error) {
	if s.Netlist != "" {
		return compiler.Load(s.Netlist)
	}

	records := make([]json.RawMessage, len(s.Components))
	for i, c := range s.Components {
		data, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("components[%d]: %w", i, err)
		}
		records[i] = data
	}
	return netlist.FromRecords(records)
}

// build constructs the simulator unless loading already failed. It
// reports whether steps can run.
func (h *Harness) build(store *netlist.Store, loadErr error, s *Scenario, result *Result) bool {
	var (
		sim *simulator.Simulator
		err = loadErr
	)
	if err == nil {
		sim, err = simulator.New(store,
			simulator.WithLogger(h.logger),
			simulator.WithHistoryLimit(s.HistoryLimit),
		)
	}

	if s.ExpectError != "" {
		ev := TraceEvent{Step: 0, Op: OpBuild, Probes: map[string]ir.Signal{}}
		switch {
		case err == nil:
			h.sim = sim
			ev = h.event(0, OpBuild, nil)
			result.AddError(fmt.Sprintf("build: expected error %q, got none", s.ExpectError))
		case !matchError(err, s.ExpectError):
			ev.Error = err.Error()
			result.AddError(fmt.Sprintf("build: expected error %q, got: %v", s.ExpectError, err))
		default:
			ev.Error = err.Error()
		}
		result.AddTrace(ev)
		return false
	}

	if err != nil {
		result.AddTrace(TraceEvent{Step: 0, Op: OpBuild, Probes: map[string]ir.Signal{}, Error: err.Error()})
		result.AddError(fmt.Sprintf("build: %v", err))
		return false
	}

	h.sim = sim
	ev := h.event(0, OpBuild, nil)
	result.AddTrace(ev)
	for _, msg := range checkProbes(ev, s.Expect) {
		result.AddError(msg)
	}
	return true
}

// executeStep runs one step. It reports whether later steps can run.
func (h *Harness) executeStep(index int, step Step, result *Result) bool {
	times := step.Times
	if times == 0 {
		times = 1
	}

	var stepErr error
	for i := 0; i < times; i++ {
		err := h.apply(step.Do)
		result.AddTrace(h.event(index, step.Do, err))
		if err != nil {
			stepErr = err
			break
		}
	}

	switch {
	case step.ExpectError != "" && stepErr == nil:
		result.AddError(fmt.Sprintf("step %d: expected error %q, got none", index, step.ExpectError))
	case step.ExpectError != "" && !matchError(stepErr, step.ExpectError):
		result.AddError(fmt.Sprintf("step %d: expected error %q, got: %v", index, step.ExpectError, stepErr))
	case step.ExpectError == "" && stepErr != nil:
		result.AddError(fmt.Sprintf("step %d: %s: %v", index, step.Do, stepErr))
		return false
	}

	for _, msg := range checkProbes(*result.Last(), step.Expect) {
		result.AddError(msg)
	}

	h.logger.Info("step completed",
		"step", index,
		"op", step.Do,
		"cycle", h.sim.Cycle(),
	)
	return true
}

func (h *Harness) apply(op string) error {
	switch op {
	case OpClock:
		return h.sim.Clock()
	case OpUnClock:
		return h.sim.UnClock()
	case OpReset:
		return h.sim.Reset()
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

// event snapshots the simulator's cycle and probes.
func (h *Harness) event(step int, op string, err error) TraceEvent {
	ev := TraceEvent{
		Step:   step,
		Op:     op,
		Cycle:  h.sim.Cycle(),
		Probes: map[string]ir.Signal{},
	}
	for _, p := range h.sim.Probes() {
		ev.Probes[p.ID] = p.Value
	}
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}

func (h *Harness) evaluateAssertions(s *Scenario, result *Result) {
	for _, a := range s.Assertions {
		if err := evaluateAssertion(result.Trace, h.sim, a); err != nil {
			result.AddError(err.Error())
		}
	}
}
