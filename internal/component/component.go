package component

import (
	"github.com/roach88/syncrim/internal/ir"
)

// Kind is the persisted discriminant of a component variant.
type Kind string

// Component kinds.
const (
	KindConstant   Kind = "Constant"
	KindWire       Kind = "Wire"
	KindMux        Kind = "Mux"
	KindAlu        Kind = "Alu"
	KindAdd        Kind = "Add"
	KindSignExtend Kind = "SignExtend"
	KindRegister   Kind = "Register"
	KindRegFile    Kind = "RegFile"
	KindProbe      Kind = "Probe"
)

// Component is one node of a netlist.
type Component interface {
	// ComponentID returns the unique id of the component.
	ComponentID() string

	// Position returns the component's layout position.
	Position() [2]float64

	// Kind returns the persisted discriminant.
	Kind() Kind

	// Ports returns the input edges, output type and outputs.
	Ports() ir.Ports

	// Evaluate computes outputs for the current pass.
	Evaluate(ctx *Context) error

	// Validate checks variant-specific configuration.
	Validate() error
}

// Stateful components own simulator-held storage words.
type Stateful interface {
	Component

	// InitialStorage returns the storage contents at cycle 0.
	InitialStorage() []ir.Signal
}

// Capturer components sample their inputs after every component has
// evaluated, producing the storage committed at the next clock edge.
type Capturer interface {
	Component

	Capture(ctx *Context) error
}

// Latched components read some inputs only as stored state: at the next
// clock edge, or from the values the previous pass settled. Edges into
// those inputs order the schedule when they can and are dropped when they
// close a loop. Every other input is read during Evaluate and must be
// produced first.
type Latched interface {
	Component

	// LatchedInputs returns indices into Ports().Inputs.
	LatchedInputs() []int
}

// Describer components provide a short human-readable summary of their
// current state for presentation layers.
type Describer interface {
	Component

	Describe(v View) string
}

// Base holds the fields every variant carries.
type Base struct {
	ID  string     `json:"id"`
	Pos [2]float64 `json:"pos"`
}

// ComponentID implements Component.
func (b *Base) ComponentID() string { return b.ID }

// Position implements Component.
func (b *Base) Position() [2]float64 { return b.Pos }

// Context gives one component access to its slice of simulator state.
//
// The simulator builds one Context per component at build time. The
// slices it holds alias the simulator's banks, so a Context stays valid
// across clock, un-clock and reset.
type Context struct {
	id      string
	signals []ir.Signal
	inputs  []int
	out     []ir.Signal
	storage []ir.Signal
	next    []ir.Signal
}

// NewContext creates a Context for component id. inputs are the resolved
// signal slots of the component's Ports inputs, in order. The output
// subrange is signals[base:base+arity]. storage and next are the
// component's committed and pending storage subranges.
func NewContext(id string, signals []ir.Signal, inputs []int, base, arity int, storage, next []ir.Signal) *Context {
	return &Context{
		id:      id,
		signals: signals,
		inputs:  inputs,
		out:     signals[base : base+arity : base+arity],
		storage: storage,
		next:    next,
	}
}

// ID returns the id of the component this context belongs to.
func (c *Context) ID() string { return c.id }

// Input returns the current value of input i.
func (c *Context) Input(i int) ir.Signal {
	return c.signals[c.inputs[i]]
}

// Set writes output i.
func (c *Context) Set(i int, v ir.Signal) {
	c.out[i] = v
}

// Output returns the current value of output i.
func (c *Context) Output(i int) ir.Signal {
	return c.out[i]
}

// Storage returns the committed storage words.
func (c *Context) Storage() []ir.Signal { return c.storage }

// Next returns the pending storage words, committed at the next clock edge.
func (c *Context) Next() []ir.Signal { return c.next }

// View is a read-only window on a component's state.
type View struct {
	ctx *Context
}

// NewView wraps ctx for read-only access.
func NewView(ctx *Context) View { return View{ctx: ctx} }

// Input returns the current value of input i.
func (v View) Input(i int) ir.Signal { return v.ctx.Input(i) }

// Output returns the current value of output i.
func (v View) Output(i int) ir.Signal { return v.ctx.Output(i) }

// Storage returns a copy of the committed storage words.
func (v View) Storage() []ir.Signal {
	return append([]ir.Signal(nil), v.ctx.storage...)
}

func boolSignal(b bool) ir.Signal {
	if b {
		return 1
	}
	return 0
}

func function(n int) []ir.OutputKind {
	out := make([]ir.OutputKind, n)
	for i := range out {
		out[i] = ir.OutputFunction
	}
	return out
}
