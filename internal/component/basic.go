package component

import (
	"fmt"

	"github.com/roach88/syncrim/internal/ir"
)

// Constant emits a fixed value.
type Constant struct {
	Base
	Value ir.Signal `json:"value"`
}

// NewConstant creates a Constant.
func NewConstant(id string, value ir.Signal) *Constant {
	return &Constant{Base: Base{ID: id}, Value: value}
}

func (c *Constant) Kind() Kind { return KindConstant }

func (c *Constant) Ports() ir.Ports {
	return ir.Ports{
		Inputs:  []ir.Input{},
		OutType: ir.Combinatorial,
		Outputs: []ir.OutputKind{ir.OutputConstant},
	}
}

func (c *Constant) Evaluate(ctx *Context) error {
	ctx.Set(0, c.Value)
	return nil
}

func (c *Constant) Validate() error { return nil }

// Wire relays its input unchanged. Delta is the wire's drawn extent.
type Wire struct {
	Base
	Delta [2]float64 `json:"delta"`
	Input ir.Input   `json:"input"`
}

// NewWire creates a Wire fed by input.
func NewWire(id string, input ir.Input) *Wire {
	return &Wire{Base: Base{ID: id}, Input: input}
}

func (w *Wire) Kind() Kind { return KindWire }

func (w *Wire) Ports() ir.Ports {
	return ir.Ports{
		Inputs:  []ir.Input{w.Input},
		OutType: ir.Combinatorial,
		Outputs: function(1),
	}
}

func (w *Wire) Evaluate(ctx *Context) error {
	ctx.Set(0, ctx.Input(0))
	return nil
}

func (w *Wire) Validate() error { return nil }

// Probe observes one signal. It has no outputs; readers query its input.
type Probe struct {
	Base
	Input ir.Input `json:"input"`
}

// NewProbe creates a Probe observing input.
func NewProbe(id string, input ir.Input) *Probe {
	return &Probe{Base: Base{ID: id}, Input: input}
}

func (p *Probe) Kind() Kind { return KindProbe }

func (p *Probe) Ports() ir.Ports {
	return ir.Ports{
		Inputs:  []ir.Input{p.Input},
		OutType: ir.NoOutputs,
		Outputs: []ir.OutputKind{},
	}
}

func (p *Probe) Evaluate(*Context) error { return nil }

func (p *Probe) Validate() error { return nil }

func (p *Probe) Describe(v View) string {
	return fmt.Sprintf("%d", v.Input(0))
}
