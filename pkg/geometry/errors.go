package geometry

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an ArcInput was rejected
type ErrorKind int

const (
	InvalidNumber ErrorKind = iota + 1
	NonPositiveRadius
	NonPositiveAngle
)

// Sentinels usable with errors.Is against a *ValidationError
var (
	ErrInvalidNumber     = errors.New("invalid number")
	ErrNonPositiveRadius = errors.New("non-positive radius")
	ErrNonPositiveAngle  = errors.New("non-positive angle")
	ErrInvalidUnit       = errors.New("invalid angle unit")
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidNumber:
		return "InvalidNumber"
	case NonPositiveRadius:
		return "NonPositiveRadius"
	case NonPositiveAngle:
		return "NonPositiveAngle"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case InvalidNumber:
		return ErrInvalidNumber
	case NonPositiveRadius:
		return ErrNonPositiveRadius
	case NonPositiveAngle:
		return ErrNonPositiveAngle
	default:
		return nil
	}
}

// ValidationError is returned by Compute when the input cannot describe an arc.
// No metrics accompany it.
type ValidationError struct {
	Kind  ErrorKind
	Field string
	Value float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s=%v", e.Kind, e.Field, e.Value)
}

// Unwrap lets errors.Is match the sentinel for the error's kind
func (e *ValidationError) Unwrap() error {
	return e.Kind.sentinel()
}

// Message is the text shown to a user who must correct the input and resubmit
func (e *ValidationError) Message() string {
	switch e.Kind {
	case InvalidNumber:
		return "Enter valid numeric values."
	case NonPositiveRadius:
		return "The radius must be greater than 0."
	case NonPositiveAngle:
		return "The angle must be greater than 0."
	default:
		return "Invalid input."
	}
}

// KindOf returns the ErrorKind carried by err, or 0 if err is not a ValidationError
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return 0
}
