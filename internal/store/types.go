package store

import "github.com/roach88/syncrim/internal/ir"

// Run is one recorded simulation.
type Run struct {
	ID            string `json:"id"`
	Seq           int64  `json:"seq"`
	NetlistHash   string `json:"netlist_hash"`
	Source        string `json:"source"`
	EngineVersion string `json:"engine_version"`
	Cycles        int    `json:"cycles"` // clock edges requested
}

// Probe is one probe reading within a recorded cycle.
type Probe struct {
	ID    string    `json:"id"`
	Value ir.Signal `json:"value"`
}

// Cycle is the recorded state after the cycle's pass settled.
type Cycle struct {
	RunID     string      `json:"run_id"`
	Cycle     int         `json:"cycle"`
	StateHash string      `json:"state_hash"`
	Signals   []ir.Signal `json:"signals"`
	Storage   []ir.Signal `json:"storage"`
	Probes    []Probe     `json:"probes"`
}

// NewCycle builds a Cycle and computes its state digest.
func NewCycle(runID string, cycle int, signals, storage []ir.Signal, probes []Probe) Cycle {
	return Cycle{
		RunID:     runID,
		Cycle:     cycle,
		StateHash: ir.StateHash(cycle, signals, storage),
		Signals:   signals,
		Storage:   storage,
		Probes:    probes,
	}
}
