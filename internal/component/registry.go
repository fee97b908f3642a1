package component

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// variants is the dispatch table keyed by discriminant.
var variants = map[Kind]func() Component{
	KindConstant:   func() Component { return &Constant{} },
	KindWire:       func() Component { return &Wire{} },
	KindMux:        func() Component { return &Mux{} },
	KindAlu:        func() Component { return &Alu{} },
	KindAdd:        func() Component { return &Add{} },
	KindSignExtend: func() Component { return &SignExtend{} },
	KindRegister:   func() Component { return &Register{} },
	KindRegFile:    func() Component { return &RegFile{} },
	KindProbe:      func() Component { return &Probe{} },
}

// Kinds returns every supported discriminant in sorted order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(variants))
	for k := range variants {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// New returns a zero value of the given kind.
func New(kind Kind) (Component, error) {
	mk, ok := variants[kind]
	if !ok {
		return nil, &UnsupportedKindError{Kind: string(kind)}
	}
	return mk(), nil
}

// Encode renders c as a tagged record: {"type":<kind>, ...fields}.
func Encode(c Component) (json.RawMessage, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode %s %q: %w", c.Kind(), c.ComponentID(), err)
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("encode %s %q: record is not an object", c.Kind(), c.ComponentID())
	}

	tag, err := json.Marshal(c.Kind())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	buf.Write(tag)
	if len(body) > 2 {
		buf.WriteByte(',')
	}
	buf.Write(body[1:])
	return buf.Bytes(), nil
}

// Decode parses one tagged record.
//
// An unknown discriminant fails with UnsupportedKindError; field-level
// problems fail with DecodeError. Cross-component checks are left to the
// netlist.
func Decode(data []byte) (Component, error) {
	var head struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if head.Type == "" {
		return nil, &DecodeError{ComponentID: head.ID, Err: fmt.Errorf("missing \"type\" discriminant")}
	}

	c, err := New(Kind(head.Type))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, &DecodeError{ComponentID: head.ID, Kind: c.Kind(), Err: err}
	}
	return c, nil
}
