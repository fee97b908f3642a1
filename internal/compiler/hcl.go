package compiler

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/roach88/syncrim/internal/netlist"
)

// hclNetlistFile is the top-level structure of an HCL netlist.
type hclNetlistFile struct {
	Components []*hclComponent `hcl:"component,block"`
}

// hclComponent is one `component "<kind>" "<id>" { ... }` block.
type hclComponent struct {
	Kind string   `hcl:"kind,label"`
	ID   string   `hcl:"id,label"`
	Body hcl.Body `hcl:",remain"`
}

// CompileHCL builds a store from HCL source. Attribute expressions are
// evaluated without variables or functions.
//
//	component "Constant" "c" {
//	  value = 3
//	}
//	component "Register" "reg" {
//	  r_in = { id = "c", index = 0 }
//	}
func CompileHCL(src []byte, filename string) (*netlist.Store, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, formatHCLDiagnostics(diags)
	}
	return compileHCLFile(file)
}

// LoadHCL compiles an HCL netlist file.
func LoadHCL(path string) (*netlist.Store, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, formatHCLDiagnostics(diags)
	}
	return compileHCLFile(file)
}

func compileHCLFile(file *hcl.File) (*netlist.Store, error) {
	var parsed hclNetlistFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, formatHCLDiagnostics(diags)
	}
	if len(parsed.Components) == 0 {
		return nil, &CompileError{Field: "component", Message: "at least one component is required"}
	}

	records := make([]json.RawMessage, 0, len(parsed.Components))
	for _, c := range parsed.Components {
		rec, err := hclRecord(c)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return netlist.FromRecords(records)
}

// hclRecord converts one block into a persistence record. The labels
// supply "type" and "id"; attributes supply the rest.
func hclRecord(c *hclComponent) (json.RawMessage, error) {
	attrs, diags := c.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, formatHCLDiagnostics(diags)
	}

	fields := map[string]any{
		"type": c.Kind,
		"id":   c.ID,
	}
	for name, attr := range attrs {
		if name == "type" || name == "id" {
			return nil, &CompileError{
				Field:    name,
				Message:  fmt.Sprintf("component %q: %s comes from the block labels", c.ID, name),
				Filename: attr.Range.Filename,
				Line:     attr.Range.Start.Line,
				Column:   attr.Range.Start.Column,
			}
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, formatHCLDiagnostics(diags)
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, &CompileError{
				Field:    name,
				Message:  fmt.Sprintf("component %q: %v", c.ID, err),
				Filename: attr.Range.Filename,
				Line:     attr.Range.Start.Line,
				Column:   attr.Range.Start.Column,
			}
		}
		fields[name] = native
	}
	return json.Marshal(fields)
}

// ctyToNative converts a cty.Value to plain Go values for JSON encoding.
// Whole numbers stay integers so 32-bit words survive the round trip.
func ctyToNative(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if ty.IsPrimitiveType() {
		switch ty {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			bf := val.AsBigFloat()
			if bf.IsInt() {
				if i, acc := bf.Int64(); acc == big.Exact {
					return i, nil
				}
			}
			f, _ := bf.Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", ty.FriendlyName())
		}
	}
	if ty.IsObjectType() || ty.IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			native, err := ctyToNative(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = native
		}
		return out, nil
	}
	if ty.IsTupleType() || ty.IsListType() {
		out := []any{}
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			native, err := ctyToNative(v)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported type: %s", ty.FriendlyName())
}
