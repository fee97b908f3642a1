package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/hashicorp/hcl/v2"
)

// CompileError is a source-level error with position info when available.
type CompileError struct {
	Field    string
	Message  string
	Filename string
	Line     int
	Column   int
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Filename, e.Line, e.Column,
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func cueCompileError(field, msg string, pos token.Pos) *CompileError {
	e := &CompileError{Field: field, Message: msg}
	if pos.IsValid() {
		e.Filename = pos.Filename()
		e.Line = pos.Line()
		e.Column = pos.Column()
	}
	return e
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return cueCompileError("cue", firstErr.Error(), positions[0])
	}
	return &CompileError{Field: "cue", Message: firstErr.Error()}
}

// formatHCLDiagnostics converts the first error diagnostic.
func formatHCLDiagnostics(diags hcl.Diagnostics) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		e := &CompileError{Field: "hcl", Message: d.Summary}
		if d.Detail != "" {
			e.Message += ": " + d.Detail
		}
		if d.Subject != nil {
			e.Filename = d.Subject.Filename
			e.Line = d.Subject.Start.Line
			e.Column = d.Subject.Start.Column
		}
		return e
	}
	return nil
}
