package model

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrValidation indicates a caller contract violation: bad parameter name or type,
	// duplicate ids, invalid connections.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a referenced entity is absent from the backend registry.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedFormat indicates a backend variant this layer cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrSerialization indicates a value with no wire representation.
	ErrSerialization = errors.New("serialization error")
)

// ValidationError reports a caller contract violation. Name is the offending parameter,
// node or port.
type ValidationError struct {
	Name string
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Msg)
	}

	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Name, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validationf builds a ValidationError for name.
func Validationf(name, format string, args ...any) error {
	return &ValidationError{Name: name, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an identifier the registry does not know about.
type NotFoundError struct {
	Kind string // "data type", "module", "datasource", "node", "port", "run"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// UnsupportedFormatError reports an unknown variant tag in a backend structure.
type UnsupportedFormatError struct {
	Kind string
	Tag  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: %s variant %q", ErrUnsupportedFormat, e.Kind, e.Tag)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// SerializationError reports a value that cannot be represented on the wire.
type SerializationError struct {
	Name  string
	Value any
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s: parameter %q: value %v of type %T has no wire representation", ErrSerialization, e.Name, e.Value, e.Value)
}

func (e *SerializationError) Unwrap() error { return ErrSerialization }
