package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/syncrim/internal/compiler"
	"github.com/roach88/syncrim/internal/component"
	"github.com/roach88/syncrim/internal/netlist"
	"github.com/roach88/syncrim/internal/simulator"
)

// Error codes for CLI responses. Netlist validation failures carry their
// own E1xx codes from package netlist.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeUnsupported = "E002" // Unsupported file format or component kind
	ErrCodeDecode      = "E003" // Malformed component record
	ErrCodeLoadFailed  = "E004" // Netlist could not be read
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeCompile     = "E006" // CUE/HCL front-end error
	ErrCodeWriteFailed = "E007" // File write error

	// Simulation errors (E200-E299)
	ErrCodeLoop      = "E201" // Combinatorial loop
	ErrCodeIndex     = "E202" // Select or address out of range
	ErrCodeUnderflow = "E203" // Un-clock past the oldest snapshot
	ErrCodeUnknown   = "E204" // Unknown component id
)

// LoadError represents a failure to locate or read a netlist.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadNetlist reads a netlist from a .json, .cue or .hcl file or from a
// CUE package directory, and validates it.
func LoadNetlist(path string) (*netlist.Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("netlist not found: %s", path), Err: err}
		}
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: err.Error(), Err: err}
	}
	return compiler.Load(path)
}

// BuildNetlist loads a netlist and builds a simulator over it.
func BuildNetlist(path string, opts ...simulator.Option) (*simulator.Simulator, error) {
	st, err := LoadNetlist(path)
	if err != nil {
		return nil, err
	}
	return simulator.New(st, opts...)
}

// errorCode maps err to the code reported in CLI responses.
func errorCode(err error) string {
	var (
		loadErr    *LoadError
		validErr   *netlist.ValidationError
		compileErr *compiler.CompileError
	)
	switch {
	case errors.As(err, &loadErr):
		return loadErr.Code
	case errors.As(err, &validErr):
		return validErr.Code
	case errors.As(err, &compileErr):
		return ErrCodeCompile
	case component.IsUnsupportedKind(err):
		return ErrCodeUnsupported
	case component.IsDecodeError(err):
		return ErrCodeDecode
	case simulator.IsLoopError(err):
		return ErrCodeLoop
	case simulator.IsIndexError(err):
		return ErrCodeIndex
	case simulator.IsHistoryUnderflow(err):
		return ErrCodeUnderflow
	case simulator.IsUnknownComponent(err):
		return ErrCodeUnknown
	default:
		return ErrCodeGeneric
	}
}

// validationErrors flattens err into its individual validation failures.
// Returns nil if err carries none.
func validationErrors(err error) []*netlist.ValidationError {
	var all netlist.ValidationErrors
	if errors.As(err, &all) {
		return all
	}
	var one *netlist.ValidationError
	if errors.As(err, &one) {
		return []*netlist.ValidationError{one}
	}
	return nil
}
