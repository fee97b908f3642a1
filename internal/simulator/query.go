package simulator

import (
	"fmt"

	"github.com/roach88/syncrim/internal/component"
	"github.com/roach88/syncrim/internal/ir"
	"github.com/roach88/syncrim/internal/netlist"
)

// ProbeReading is the value a Probe observes.
type ProbeReading struct {
	ID    string    `json:"id"`
	Value ir.Signal `json:"value"`
}

// Description is a read-only summary of one component for presentation.
type Description struct {
	ID      string         `json:"id"`
	Kind    component.Kind `json:"kind"`
	OutType string         `json:"out_type"`
	Inputs  []ir.Signal    `json:"inputs"`
	Outputs []ir.Signal    `json:"outputs"`
	Storage []ir.Signal    `json:"storage,omitempty"`
	Summary string         `json:"summary,omitempty"`
}

// Cycle returns the current cycle number.
func (s *Simulator) Cycle() int { return s.state.Cycle }

// HistoryLen returns the number of cycles UnClock can rewind.
func (s *Simulator) HistoryLen() int { return len(s.history) }

// Len returns the length of the signal vector.
func (s *Simulator) Len() int { return len(s.state.Signals) }

// Store returns the compiled store.
func (s *Simulator) Store() *netlist.Store { return s.store }

// Components returns the store's components in declaration order.
func (s *Simulator) Components() []component.Component { return s.store.Components() }

// Signals returns a copy of the signal vector.
func (s *Simulator) Signals() []ir.Signal {
	return append([]ir.Signal(nil), s.state.Signals...)
}

// State returns a copy of the full current state.
func (s *Simulator) State() State { return s.state.clone() }

// Order returns component ids in evaluation order.
func (s *Simulator) Order() []string {
	ids := make([]string, len(s.order))
	for i, v := range s.order {
		ids[i] = s.nodes[v].comp.ComponentID()
	}
	return ids
}

// Offset returns the first signal slot of component id.
func (s *Simulator) Offset(id string) (int, bool) {
	n, ok := s.node(id)
	if !ok {
		return 0, false
	}
	return n.base, true
}

// Value returns output index of component id.
func (s *Simulator) Value(id string, index int) (ir.Signal, error) {
	n, ok := s.node(id)
	if !ok {
		return 0, &netlist.UnknownComponentError{ID: id}
	}
	if arity := n.ports.Arity(); index < 0 || index >= arity {
		return 0, fmt.Errorf("component %q: output %d out of range (arity %d)", id, index, arity)
	}
	return s.state.Signals[n.base+index], nil
}

// ProbeValue returns the value observed by the Probe id.
func (s *Simulator) ProbeValue(id string) (ir.Signal, error) {
	n, ok := s.node(id)
	if !ok {
		return 0, &netlist.UnknownComponentError{ID: id}
	}
	if n.comp.Kind() != component.KindProbe {
		return 0, fmt.Errorf("component %q is a %s, not a Probe", id, n.comp.Kind())
	}
	return s.state.Signals[n.slots[0]], nil
}

// Probes returns every probe reading in declaration order.
func (s *Simulator) Probes() []ProbeReading {
	var out []ProbeReading
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.comp.Kind() == component.KindProbe {
			out = append(out, ProbeReading{
				ID:    n.comp.ComponentID(),
				Value: s.state.Signals[n.slots[0]],
			})
		}
	}
	return out
}

// Describe summarizes component id without touching simulation state.
func (s *Simulator) Describe(id string) (Description, error) {
	n, ok := s.node(id)
	if !ok {
		return Description{}, &netlist.UnknownComponentError{ID: id}
	}

	view := component.NewView(n.ctx)
	d := Description{
		ID:      n.comp.ComponentID(),
		Kind:    n.comp.Kind(),
		OutType: n.ports.OutType.String(),
		Inputs:  make([]ir.Signal, len(n.slots)),
		Outputs: make([]ir.Signal, n.ports.Arity()),
	}
	for i := range d.Inputs {
		d.Inputs[i] = view.Input(i)
	}
	for i := range d.Outputs {
		d.Outputs[i] = view.Output(i)
	}
	if n.stLen > 0 {
		d.Storage = view.Storage()
	}
	if desc, ok := n.comp.(component.Describer); ok {
		d.Summary = desc.Describe(view)
	}
	return d, nil
}

func (s *Simulator) node(id string) (*node, bool) {
	h, ok := s.store.Lookup(id)
	if !ok {
		return nil, false
	}
	return &s.nodes[h], true
}
