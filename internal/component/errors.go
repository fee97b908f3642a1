package component

import (
	"errors"
	"fmt"

	"github.com/roach88/syncrim/internal/ir"
)

// IndexError reports an out-of-range select or address seen during Evaluate.
// The pass that raised it is abandoned.
type IndexError struct {
	ComponentID string
	Port        string
	Value       ir.Signal
	Limit       int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("component %q: %s value %d out of range [0, %d)", e.ComponentID, e.Port, e.Value, e.Limit)
}

// UnsupportedKindError reports an unknown persisted discriminant.
type UnsupportedKindError struct {
	Kind string
}

// Error implements the error interface.
func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported component kind %q", e.Kind)
}

// DecodeError reports a record whose fields could not be decoded.
type DecodeError struct {
	ComponentID string
	Kind        Kind
	Err         error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.ComponentID != "" {
		return fmt.Sprintf("decode %s %q: %v", e.Kind, e.ComponentID, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *DecodeError) Unwrap() error { return e.Err }

// IsIndexError returns true if err is or wraps an IndexError.
func IsIndexError(err error) bool {
	var ie *IndexError
	return errors.As(err, &ie)
}

// IsUnsupportedKind returns true if err is or wraps an UnsupportedKindError.
func IsUnsupportedKind(err error) bool {
	var ue *UnsupportedKindError
	return errors.As(err, &ue)
}

// IsDecodeError returns true if err is or wraps a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

func checkIndex(id, port string, v ir.Signal, limit int) error {
	if int64(v) >= int64(limit) {
		return &IndexError{ComponentID: id, Port: port, Value: v, Limit: limit}
	}
	return nil
}
