package netlist

import (
	"errors"
	"fmt"
	"strings"
)

// Validation error codes (E100-E199)
const (
	ErrDuplicateID    = "E101" // two components share an id
	ErrDanglingInput  = "E102" // input names a missing component
	ErrPortOutOfRange = "E103" // input index beyond producer arity
	ErrEmptyID        = "E104" // component id is empty
	ErrInvalidConfig  = "E105" // variant configuration rejected
)

// ValidationError reports a structurally invalid netlist.
type ValidationError struct {
	Code        string `json:"code"`
	ComponentID string `json:"component_id"`
	Field       string `json:"field,omitempty"`
	Message     string `json:"message"`
	Err         error  `json:"-"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s.%s: %s", e.Code, e.ComponentID, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.ComponentID, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ValidationError) Unwrap() error { return e.Err }

// ValidationErrors collects every problem found in one validation run.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes each error to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// UnknownComponentError reports an Input naming an id absent from the store.
type UnknownComponentError struct {
	ID       string
	Referrer string
}

// Error implements the error interface.
func (e *UnknownComponentError) Error() string {
	if e.Referrer == "" {
		return fmt.Sprintf("unknown component %q", e.ID)
	}
	return fmt.Sprintf("component %q references unknown component %q", e.Referrer, e.ID)
}

// ErrSealed is returned when adding to a store a simulator was built from.
var ErrSealed = errors.New("netlist is sealed: rebuild the simulator to change topology")

// IsValidationError returns true if err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HasCode returns true if err contains a ValidationError with the given code.
func HasCode(err error, code string) bool {
	var errs ValidationErrors
	if errors.As(err, &errs) {
		for _, e := range errs {
			if e.Code == code {
				return true
			}
		}
		return false
	}
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Code == code
}

// IsUnknownComponent returns true if err is or wraps an UnknownComponentError.
func IsUnknownComponent(err error) bool {
	var ue *UnknownComponentError
	return errors.As(err, &ue)
}
