// Package netlist provides the component store: an ordered, id-keyed arena
// of components addressed by integer handle.
//
// A Store is validated eagerly, when it is loaded or when a simulator is
// built from it, never during simulation. Validation is structural only:
//   - ids are non-empty and unique after NFC normalization
//   - every Input names an existing component
//   - every Input's output index is within the producer's arity
//   - every component's own configuration is valid
//
// Persistence is a JSON array of tagged records, one per component, in
// declaration order. See component.Encode for the record shape.
package netlist
