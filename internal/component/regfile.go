package component

import (
	"fmt"
	"strings"

	"github.com/roach88/syncrim/internal/ir"
)

// RegFileSize is the number of entries in a RegFile.
const RegFileSize = 32

// WritePolicy selects when a RegFile write becomes visible.
type WritePolicy string

const (
	// WriteFirst applies an enabled write before both reads in the same
	// pass, so a read of the written address observes the new value.
	WriteFirst WritePolicy = "write_first"

	// ReadFirst reads committed entries; the write is captured at the end
	// of the pass and becomes visible after the next clock edge.
	ReadFirst WritePolicy = "read_first"
)

// RegFile is a 32-entry register file with two read ports and one write
// port. Entry 0 always reads as 0.
//
// Inputs are [read_addr1, read_addr2, write_data, write_addr, write_enable].
// Outputs are [read_data1, read_data2].
type RegFile struct {
	Base
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	ReadAddr1   ir.Input    `json:"read_addr1"`
	ReadAddr2   ir.Input    `json:"read_addr2"`
	WriteData   ir.Input    `json:"write_data"`
	WriteAddr   ir.Input    `json:"write_addr"`
	WriteEnable ir.Input    `json:"write_enable"`
	Registers   []ir.Signal `json:"registers,omitempty"`
	WritePolicy WritePolicy `json:"write_policy,omitempty"`
}

const (
	rfReadAddr1 = iota
	rfReadAddr2
	rfWriteData
	rfWriteAddr
	rfWriteEnable
)

func (r *RegFile) Kind() Kind { return KindRegFile }

func (r *RegFile) Ports() ir.Ports {
	return ir.Ports{
		Inputs:  []ir.Input{r.ReadAddr1, r.ReadAddr2, r.WriteData, r.WriteAddr, r.WriteEnable},
		OutType: ir.Sequential,
		Outputs: function(2),
	}
}

// LatchedInputs returns the write port. The read addresses select what
// Evaluate emits in the same pass, so their producers must run first.
func (r *RegFile) LatchedInputs() []int {
	return []int{rfWriteData, rfWriteAddr, rfWriteEnable}
}

// Policy returns the effective write policy.
func (r *RegFile) Policy() WritePolicy {
	if r.WritePolicy == "" {
		return WriteFirst
	}
	return r.WritePolicy
}

func (r *RegFile) InitialStorage() []ir.Signal {
	regs := make([]ir.Signal, RegFileSize)
	copy(regs, r.Registers)
	return regs
}

func (r *RegFile) Evaluate(ctx *Context) error {
	if r.Policy() == WriteFirst {
		if err := r.write(ctx, ctx.Storage()); err != nil {
			return err
		}
	}

	for port, in := range []int{rfReadAddr1, rfReadAddr2} {
		v, err := r.read(ctx, in)
		if err != nil {
			return err
		}
		ctx.Set(port, v)
	}
	return nil
}

func (r *RegFile) Capture(ctx *Context) error {
	if r.Policy() != ReadFirst {
		return nil
	}
	return r.write(ctx, ctx.Next())
}

func (r *RegFile) write(ctx *Context, dst []ir.Signal) error {
	if ctx.Input(rfWriteEnable) == 0 {
		return nil
	}
	addr := ctx.Input(rfWriteAddr)
	if err := checkIndex(r.ID, "write_addr", addr, RegFileSize); err != nil {
		return err
	}
	dst[addr] = ctx.Input(rfWriteData)
	return nil
}

func (r *RegFile) read(ctx *Context, in int) (ir.Signal, error) {
	addr := ctx.Input(in)
	port := "read_addr1"
	if in == rfReadAddr2 {
		port = "read_addr2"
	}
	if err := checkIndex(r.ID, port, addr, RegFileSize); err != nil {
		return 0, err
	}
	if addr == 0 {
		return 0, nil
	}
	return ctx.Storage()[addr], nil
}

func (r *RegFile) Validate() error {
	switch r.Policy() {
	case WriteFirst, ReadFirst:
	default:
		return fmt.Errorf("invalid write_policy %q", r.WritePolicy)
	}
	if len(r.Registers) > RegFileSize {
		return fmt.Errorf("registers has %d entries, at most %d allowed", len(r.Registers), RegFileSize)
	}
	return nil
}

func (r *RegFile) Describe(v View) string {
	var parts []string
	for i, val := range v.Storage() {
		if i > 0 && val != 0 {
			parts = append(parts, fmt.Sprintf("r%d=%d", i, val))
		}
	}
	if len(parts) == 0 {
		return "all zero"
	}
	return strings.Join(parts, " ")
}
