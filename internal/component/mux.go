package component

import (
	"errors"
	"fmt"

	"github.com/roach88/syncrim/internal/ir"
)

// Mux forwards MIn[select]. Its inputs are Select followed by MIn.
type Mux struct {
	Base
	Select ir.Input   `json:"select"`
	MIn    []ir.Input `json:"m_in"`
}

// NewMux creates a Mux.
func NewMux(id string, sel ir.Input, in ...ir.Input) *Mux {
	return &Mux{Base: Base{ID: id}, Select: sel, MIn: in}
}

func (m *Mux) Kind() Kind { return KindMux }

func (m *Mux) Ports() ir.Ports {
	inputs := make([]ir.Input, 0, len(m.MIn)+1)
	inputs = append(inputs, m.Select)
	inputs = append(inputs, m.MIn...)
	return ir.Ports{
		Inputs:  inputs,
		OutType: ir.Combinatorial,
		Outputs: function(1),
	}
}

func (m *Mux) Evaluate(ctx *Context) error {
	sel := ctx.Input(0)
	if err := checkIndex(m.ID, "select", sel, len(m.MIn)); err != nil {
		return err
	}
	ctx.Set(0, ctx.Input(1+int(sel)))
	return nil
}

func (m *Mux) Validate() error {
	if len(m.MIn) == 0 {
		return errors.New("m_in must have at least one input")
	}
	return nil
}

func (m *Mux) Describe(v View) string {
	return fmt.Sprintf("select=%d out=%d", v.Input(0), v.Output(0))
}
