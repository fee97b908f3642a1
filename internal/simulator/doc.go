// Package simulator compiles a netlist into a scheduled, steppable state
// machine.
//
// BUILD:
//
// New validates the store, allocates every component a contiguous output
// subrange of one flat signal vector (declaration order), resolves every
// Input to a slot index, builds the dependency graph, rejects
// combinatorial loops and computes the evaluation order. It then runs one
// pass to materialize cycle 0.
//
// An input read during Evaluate is a hard edge: the producer must run
// first. A latched input (component.Latched: a Register's r_in, a
// RegFile's write port) is a soft edge: it orders the schedule when it
// can, and is dropped when it closes a loop, since the value only reaches
// the outputs through storage. A RegFile's read addresses are hard. A
// loop made only of hard edges is a CombinatorialLoopError.
//
// PASS:
//
//  1. Every component evaluates in schedule order.
//  2. The pending storage bank is reset to the committed bank.
//  3. Every Capturer samples its inputs into the pending bank.
//
// CLOCK:
//
// Clock pushes the current state onto the history stack, commits pending
// storage and runs a pass. UnClock pops the stack. Reset discards history
// and rebuilds cycle 0. A pass that fails leaves the previous state and
// history untouched.
//
// Persistent storage (Register words, RegFile entries) lives in
// simulator-owned banks. Components reach their own words only through
// their component.Context.
//
// A Simulator is not safe for concurrent use. Hosts must serialize every
// mutation and read externally.
package simulator
