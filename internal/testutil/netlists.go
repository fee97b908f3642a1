// Package testutil provides fixture netlists and deterministic helpers
// shared by package tests.
package testutil

import (
	"github.com/roach88/syncrim/internal/component"
	"github.com/roach88/syncrim/internal/ir"
	"github.com/roach88/syncrim/internal/netlist"
)

// In is shorthand for ir.NewInput.
func In(id string, index int) ir.Input { return ir.NewInput(id, index) }

// MustStore builds a store from components and panics on duplicate ids.
// It does not validate; simulator construction does that.
func MustStore(components ...component.Component) *netlist.Store {
	s, err := netlist.New(components...)
	if err != nil {
		panic(err)
	}
	return s
}

// RegisterChain is Constant(3) -> Wire -> Register, Register -> Wire -> Probe.
// The probe "p_reg" reads 0 at cycle 0 and 3 from cycle 1 on.
func RegisterChain() *netlist.Store {
	return MustStore(
		component.NewConstant("c", 3),
		component.NewWire("w1", In("c", 0)),
		component.NewRegister("reg", In("w1", 0)),
		component.NewWire("w2", In("reg", 0)),
		component.NewProbe("p_reg", In("w2", 0)),
	)
}

// MuxSelect feeds Constant(sel) into a two-input Mux over Constant(10) and
// Constant(20), observed by probe "p_mux".
func MuxSelect(sel ir.Signal) *netlist.Store {
	return MustStore(
		component.NewConstant("sel", sel),
		component.NewConstant("a", 10),
		component.NewConstant("b", 20),
		component.NewMux("mux", In("sel", 0), In("a", 0), In("b", 0)),
		component.NewProbe("p_mux", In("mux", 0)),
	)
}

// RegFileWrite writes 42 to entry 4 while reading entries 4 and 3.
// Probes "p_rd1" and "p_rd2" observe the two read ports.
func RegFileWrite(policy component.WritePolicy) *netlist.Store {
	return MustStore(
		component.NewConstant("c_read_reg_1", 4),
		component.NewConstant("c_read_reg_2", 3),
		component.NewConstant("c_write_data", 42),
		component.NewConstant("c_write_addr", 4),
		component.NewConstant("c_write_enable", 1),
		&component.RegFile{
			Base:        component.Base{ID: "reg_file", Pos: [2]float64{200, 150}},
			Width:       100,
			Height:      150,
			ReadAddr1:   In("c_read_reg_1", 0),
			ReadAddr2:   In("c_read_reg_2", 0),
			WriteData:   In("c_write_data", 0),
			WriteAddr:   In("c_write_addr", 0),
			WriteEnable: In("c_write_enable", 0),
			WritePolicy: policy,
		},
		component.NewProbe("p_rd1", In("reg_file", 0)),
		component.NewProbe("p_rd2", In("reg_file", 1)),
	)
}

// CombinatorialLoop wires two Wires into each other.
func CombinatorialLoop() *netlist.Store {
	return MustStore(
		component.NewWire("a", In("b", 0)),
		component.NewWire("b", In("a", 0)),
	)
}

// RegisterLoop is CombinatorialLoop with "b" replaced by a Register.
func RegisterLoop() *netlist.Store {
	return MustStore(
		component.NewWire("a", In("b", 0)),
		component.NewRegister("b", In("a", 0)),
	)
}

// Counter increments a Register by step every clock. Probe "p_count"
// reads the register; "p_next" reads the adder.
func Counter(step ir.Signal) *netlist.Store {
	return MustStore(
		component.NewRegister("count", In("add", 0)),
		component.NewConstant("step", step),
		component.NewAdd("add", In("count", 0), In("step", 0)),
		component.NewProbe("p_count", In("count", 0)),
		component.NewProbe("p_next", In("add", 0)),
	)
}

// SelectCounter drives a two-input Mux select from a counter. Probe
// "p_mux" reads 10 at cycle 0 and 20 at cycle 1; clocking to cycle 2
// fails with an IndexError.
func SelectCounter() *netlist.Store {
	return MustStore(
		component.NewRegister("count", In("add", 0)),
		component.NewConstant("one", 1),
		component.NewAdd("add", In("count", 0), In("one", 0)),
		component.NewConstant("a", 10),
		component.NewConstant("b", 20),
		component.NewMux("mux", In("count", 0), In("a", 0), In("b", 0)),
		component.NewProbe("p_mux", In("mux", 0)),
	)
}

// FetchLoop steps a program counter through a RegFile whose entry i holds
// 10*i. The read address comes from the counter and the read data feeds
// back into the next counter value, so the RegFile sits inside the
// counter's feedback loop. Probe "p_pc" reads the counter and "p_rd1"
// the entry it addresses: 10*n at cycle n.
func FetchLoop() *netlist.Store {
	regs := make([]ir.Signal, component.RegFileSize)
	for i := range regs {
		regs[i] = ir.Signal(10 * i)
	}
	return MustStore(
		component.NewConstant("c0", 0),
		component.NewConstant("c1", 1),
		&component.RegFile{
			Base:        component.Base{ID: "rf"},
			ReadAddr1:   In("pc_w", 0),
			ReadAddr2:   In("c0", 0),
			WriteData:   In("c0", 0),
			WriteAddr:   In("c0", 0),
			WriteEnable: In("c0", 0),
			Registers:   regs,
		},
		component.NewRegister("pc", In("next", 0)),
		component.NewWire("pc_w", In("pc", 0)),
		component.NewAdd("sum", In("pc_w", 0), In("rf", 1)),
		component.NewAdd("next", In("sum", 0), In("c1", 0)),
		component.NewProbe("p_rd1", In("rf", 0)),
		component.NewProbe("p_pc", In("pc", 0)),
	)
}
