package harness

import "github.com/roach88/syncrim/internal/ir"

// Trace operations.
const (
	OpBuild   = "build"
	OpClock   = "clock"
	OpUnClock = "unclock"
	OpReset   = "reset"
)

// TraceEvent records the simulator after one operation.
type TraceEvent struct {
	Step   int                  `json:"step"` // 0 for build, then 1-based step index
	Op     string               `json:"op"`
	Cycle  int                  `json:"cycle"`
	Probes map[string]ir.Signal `json:"probes"`
	Error  string               `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expectations and assertions match.
	Pass bool `json:"pass"`

	// Trace contains one event per operation, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}

// Last returns the most recent event, or nil for an empty trace.
func (r *Result) Last() *TraceEvent {
	if len(r.Trace) == 0 {
		return nil
	}
	return &r.Trace[len(r.Trace)-1]
}
