// Package component defines the closed set of netlist component kinds and
// the contract the simulator uses to evaluate them.
//
// Every component exposes its identity, its Ports and an Evaluate operation.
// Evaluate reads resolved input slots and writes only into the component's
// own output subrange through a Context built by the simulator.
//
// Persistent storage (a Register's word, a RegFile's entries) is owned by
// the simulator. Components describe its initial contents via Stateful and
// reach it only through their own Context, so a component value is never
// mutated after it is added to a netlist.
//
// Persistence uses tagged JSON records:
//
//	{"type":"Register","id":"reg","pos":[200,100],"r_in":{"id":"c","index":0}}
//
// The "type" discriminant selects a variant from a fixed dispatch table.
// There is no runtime registration: the variant set is known at build time.
package component
