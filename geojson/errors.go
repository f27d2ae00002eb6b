package geojson

import (
	"errors"
	"fmt"
)

// Error kinds returned by the package. Match them with errors.Is.
var (
	// ErrInvalidArgument is matched by every *ArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIndexOutOfRange reports a raw coordinate array of the wrong length.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotSupported reports a geometry type tag outside the known set.
	ErrNotSupported = errors.New("not supported")
	// ErrNotImplemented reports a Coordinates value with no type tag mapping.
	ErrNotImplemented = errors.New("not implemented")
	// ErrMalformed reports a missing member or a JSON value of the wrong kind.
	ErrMalformed = errors.New("malformed GeoJSON")
)

// ArgumentError is returned when a constructor receives an argument it cannot accept.
type ArgumentError struct {
	Param   string
	Message string
}

func newArgumentError(param, msg string) *ArgumentError {
	return &ArgumentError{Param: param, Message: msg}
}

func (e *ArgumentError) Error() string {
	if e.Param == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (Parameter '%s')", e.Message, e.Param)
}

// Is reports ErrInvalidArgument as the kind of every argument error.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
