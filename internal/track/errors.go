package track

import "errors"

// Compilation errors are content errors: the loading layer is expected to
// reject the offending entity and keep the rest of the scene intact.
var (
	// ErrUnboundVariable is returned when an identifier is not found in the
	// variable table chain.
	ErrUnboundVariable = errors.New("unbound variable")

	// ErrUnrecognizedExpression is returned for an unknown expression tag.
	ErrUnrecognizedExpression = errors.New("unrecognized track expression")

	// ErrInvalidArgument is returned for structurally valid expressions with
	// bad arguments, such as a timeShift of an entity reference.
	ErrInvalidArgument = errors.New("invalid track argument")

	// ErrNotImplemented is returned for the reserved follow combinator.
	ErrNotImplemented = errors.New("not implemented")
)
