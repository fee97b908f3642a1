package component

import (
	"fmt"

	"github.com/roach88/syncrim/internal/ir"
)

// Register holds one word. It emits the stored word during a pass and
// captures RIn as the word emitted after the next clock edge.
type Register struct {
	Base
	RIn  ir.Input  `json:"r_in"`
	Init ir.Signal `json:"init,omitempty"`
}

// NewRegister creates a Register latching rIn.
func NewRegister(id string, rIn ir.Input) *Register {
	return &Register{Base: Base{ID: id}, RIn: rIn}
}

func (r *Register) Kind() Kind { return KindRegister }

func (r *Register) Ports() ir.Ports {
	return ir.Ports{
		Inputs:  []ir.Input{r.RIn},
		OutType: ir.Sequential,
		Outputs: function(1),
	}
}

func (r *Register) LatchedInputs() []int { return []int{0} }

func (r *Register) InitialStorage() []ir.Signal {
	return []ir.Signal{r.Init}
}

func (r *Register) Evaluate(ctx *Context) error {
	ctx.Set(0, ctx.Storage()[0])
	return nil
}

func (r *Register) Capture(ctx *Context) error {
	ctx.Next()[0] = ctx.Input(0)
	return nil
}

func (r *Register) Validate() error { return nil }

func (r *Register) Describe(v View) string {
	return fmt.Sprintf("q=%d d=%d", v.Output(0), v.Input(0))
}
