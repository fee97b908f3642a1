package ir

import "fmt"

// Signal is the value carried on one output slot.
type Signal uint32

// Input references output Index of the component named ID.
// Inputs are resolved to flat state slots once, when a simulator is built.
type Input struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
}

// NewInput creates an Input referencing id's output index.
func NewInput(id string, index int) Input {
	return Input{ID: id, Index: index}
}

// String renders the input as "id.index".
func (i Input) String() string {
	return fmt.Sprintf("%s.%d", i.ID, i.Index)
}

// OutputType drives scheduling.
type OutputType int

const (
	// Combinatorial outputs are recomputed every pass from current inputs.
	Combinatorial OutputType = iota
	// Sequential outputs reflect storage captured at the previous clock edge.
	Sequential
	// NoOutputs marks observers that declare no output slots.
	NoOutputs
)

// String implements fmt.Stringer.
func (t OutputType) String() string {
	switch t {
	case Combinatorial:
		return "combinatorial"
	case Sequential:
		return "sequential"
	case NoOutputs:
		return "none"
	default:
		return fmt.Sprintf("OutputType(%d)", int(t))
	}
}

// OutputKind tags a single output slot.
type OutputKind string

const (
	// OutputFunction is computed from inputs.
	OutputFunction OutputKind = "function"
	// OutputConstant never changes after the initial pass.
	OutputConstant OutputKind = "constant"
)

// Ports describes a component's edges and output arity.
// It is computed once from a component's configuration.
type Ports struct {
	Inputs  []Input      `json:"inputs"`
	OutType OutputType   `json:"out_type"`
	Outputs []OutputKind `json:"outputs"`
}

// Arity returns the number of output slots.
func (p Ports) Arity() int {
	return len(p.Outputs)
}
