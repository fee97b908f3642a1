package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/syncrim/internal/ir"
)

// Scenario defines a simulation test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Netlist is a path to a .json, .cue or .hcl netlist.
	// Relative paths are resolved against the scenario file's directory.
	Netlist string `yaml:"netlist,omitempty"`

	// Components are inline persistence records, used instead of Netlist.
	Components []map[string]any `yaml:"components,omitempty"`

	// HistoryLimit bounds un-clocking; 0 means unbounded.
	HistoryLimit int `yaml:"history_limit,omitempty"`

	// Expect holds probe values after construction (cycle 0).
	Expect map[string]ir.Signal `yaml:"expect,omitempty"`

	// ExpectError makes construction itself the thing under test.
	// When set, no steps may follow.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Steps run in order after construction.
	Steps []Step `yaml:"steps,omitempty"`

	// Assertions validate the whole trace after all steps ran.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one operation, optionally repeated.
type Step struct {
	// Do is clock, unclock or reset.
	Do string `yaml:"do"`

	// Times repeats the operation. Default 1.
	Times int `yaml:"times,omitempty"`

	// Expect holds probe values after the last repetition.
	Expect map[string]ir.Signal `yaml:"expect,omitempty"`

	// ExpectError requires a repetition to fail with a matching error.
	// Repetitions stop at the first error.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates the trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "probe_sequence": Probe reads Values across every successful event
	// - "final_cycle": the last event is at Cycle
	// - "history_len": exactly Count cycles can be un-clocked at the end
	// - "trace_count": Op appears exactly Count times
	Type string `yaml:"type"`

	Probe  string      `yaml:"probe,omitempty"`
	Values []ir.Signal `yaml:"values,omitempty"`
	Cycle  int         `yaml:"cycle,omitempty"`
	Op     string      `yaml:"op,omitempty"`
	Count  int         `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertProbeSequence = "probe_sequence"
	AssertFinalCycle    = "final_cycle"
	AssertHistoryLen    = "history_len"
	AssertTraceCount    = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative netlist path is resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Netlist != "" && !filepath.IsAbs(scenario.Netlist) {
		scenario.Netlist = filepath.Join(filepath.Dir(path), scenario.Netlist)
	}
	if scenario.Netlist != "" {
		if _, err := os.Stat(scenario.Netlist); err != nil {
			return nil, fmt.Errorf("invalid scenario: netlist not found: %s", scenario.Netlist)
		}
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML without touching the filesystem.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "step:" vs "steps:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	switch {
	case s.Netlist == "" && len(s.Components) == 0:
		return fmt.Errorf("one of netlist or components is required")
	case s.Netlist != "" && len(s.Components) > 0:
		return fmt.Errorf("netlist and components are mutually exclusive")
	}

	if s.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must be non-negative")
	}

	if s.ExpectError != "" && (len(s.Steps) > 0 || len(s.Expect) > 0) {
		return fmt.Errorf("expect_error cannot be combined with expect or steps")
	}

	for i, step := range s.Steps {
		switch step.Do {
		case OpClock, OpUnClock, OpReset:
		case "":
			return fmt.Errorf("steps[%d]: do is required", i)
		default:
			return fmt.Errorf("steps[%d]: unknown operation %q", i, step.Do)
		}
		if step.Times < 0 {
			return fmt.Errorf("steps[%d]: times must be non-negative", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertProbeSequence:
		if a.Probe == "" {
			return fmt.Errorf("assertions[%d]: probe is required for probe_sequence", index)
		}
		if len(a.Values) == 0 {
			return fmt.Errorf("assertions[%d]: values list is required for probe_sequence", index)
		}
	case AssertFinalCycle, AssertHistoryLen:
		if a.Cycle < 0 || a.Count < 0 {
			return fmt.Errorf("assertions[%d]: values must be non-negative for %s", index, a.Type)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
