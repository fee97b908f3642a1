// Package compiler turns authored netlists into a netlist.Store.
//
// Two authoring formats are supported besides the native JSON save form:
//
//   - CUE: a top-level `component` struct whose labels are component ids,
//     unified with an embedded schema before conversion.
//   - HCL: `component "<kind>" "<id>" { ... }` blocks whose attributes are
//     the record fields.
//
// Both produce the same persistence records component.Decode accepts, so
// validation and error reporting downstream are identical for all formats.
package compiler
