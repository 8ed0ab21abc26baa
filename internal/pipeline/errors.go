package pipeline

import "fmt"

// Error is the generic structural pipeline error: duplicate component
// names, ownership violations, malformed serialized definitions.
type Error struct {
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Msg }

// newErrorf builds an *Error from a format string.
func newErrorf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// ConnectError is raised at graph construction time when a connection
// between two components is ambiguous or impossible.
type ConnectError struct {
	Msg string
}

// Error implements the error interface.
func (e *ConnectError) Error() string { return e.Msg }

func newConnectErrorf(format string, args ...any) *ConnectError {
	return &ConnectError{Msg: fmt.Sprintf(format, args...)}
}

// MaxLoopsError is raised at run time when a component exceeds the
// per-run visit ceiling. It is a safety valve against non-terminating
// feedback cycles.
type MaxLoopsError struct {
	Component string
	Limit     int
}

// Error implements the error interface.
func (e *MaxLoopsError) Error() string {
	return fmt.Sprintf("maximum loops count (%d) exceeded for component '%s'", e.Limit, e.Component)
}

// RuntimeError is raised at run time when a component's execution fails
// or violates the output contract. It wraps the original cause.
type RuntimeError struct {
	Component string
	Err       error
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("component '%s' failed: %v", e.Component, e.Err)
}

// Unwrap exposes the original cause for errors.Is / errors.As.
func (e *RuntimeError) Unwrap() error { return e.Err }

// DrawingError is raised by the drawing layer when its preconditions
// are not met, for example drawing an empty pipeline.
type DrawingError struct {
	Msg string
}

// Error implements the error interface.
func (e *DrawingError) Error() string { return e.Msg }
