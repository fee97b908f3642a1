package compiler

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/syncrim/internal/netlist"
)

//go:embed schema.cue
var schemaSource string

// CompileCUE builds a store from a CUE value holding a top-level
// `component` struct. Field order is declaration order.
//
//	component: {
//		c:   {type: "Constant", value: 3}
//		reg: {type: "Register", r_in: {id: "c", index: 0}}
//	}
func CompileCUE(v cue.Value) (*netlist.Store, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schema := v.Context().CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	v = schema.Unify(v)

	componentsVal := v.LookupPath(cue.ParsePath("component"))
	if !componentsVal.Exists() {
		return nil, cueCompileError("component", "at least one component is required", v.Pos())
	}
	if err := componentsVal.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	iter, err := componentsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var records []json.RawMessage
	for iter.Next() {
		rec, err := cueRecord(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, cueCompileError("component", "at least one component is required", componentsVal.Pos())
	}

	return netlist.FromRecords(records)
}

// cueRecord converts one component struct into a persistence record,
// taking the id from its label.
func cueRecord(label string, v cue.Value) (json.RawMessage, error) {
	data, err := v.MarshalJSON()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("component %q: %w", label, err)
	}
	id, err := json.Marshal(label)
	if err != nil {
		return nil, err
	}
	if declared, ok := fields["id"]; ok && string(declared) != string(id) {
		return nil, cueCompileError("id",
			fmt.Sprintf("component %q declares id %s", label, declared), v.Pos())
	}
	fields["id"] = id

	return json.Marshal(fields)
}

// LoadCUE compiles a .cue file, or every .cue file of a directory as one
// package.
func LoadCUE(path string) (*netlist.Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return CompileCUE(ctx.CompileBytes(data, cue.Filename(path)))
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: filepath.Clean(path)})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances in %s", path)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}
	return CompileCUE(ctx.BuildInstance(inst))
}
