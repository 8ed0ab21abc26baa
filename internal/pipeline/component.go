// Package pipeline implements a directed-graph runtime that wires named
// components into a computation graph, resolves data dependencies
// between them, and executes the graph to a fixed point. Cycles are a
// first-class feature, bounded by a per-component visit ceiling.
package pipeline

import "context"

// Component is the unit of computation managed by the engine. It
// declares its input and output sockets explicitly and exposes a single
// execution operation. How a component computes its outputs is its own
// concern; the engine only routes values between sockets.
//
// Component instances must be comparable (in practice, pointers): the
// engine tracks exclusive ownership by instance identity.
type Component interface {
	// Inputs declares the component's input sockets. Sender sets on the
	// returned sockets are ignored; the engine tracks its own copies.
	Inputs() []InputSocket
	// Outputs declares the component's output sockets.
	Outputs() []OutputSocket
	// Run consumes a mapping of input socket name to value and returns
	// a mapping of output socket name to value. Only sockets with a
	// pending value or a default appear in the input mapping. Variadic
	// sockets receive a []any. A nil result with a nil error is a
	// contract violation.
	Run(ctx context.Context, inputs map[string]any) (map[string]any, error)
}

// Describable is implemented by components that can be serialized into
// a pipeline definition and rebuilt by a registry factory.
type Describable interface {
	// TypeName is the stable registry key for this component type.
	TypeName() string
	// InitParameters returns the constructor parameters needed to
	// rebuild an equivalent instance.
	InitParameters() map[string]any
}

// ComponentBuilder constructs component instances from a stable type
// name and constructor parameters. The registry package provides the
// canonical implementation.
type ComponentBuilder interface {
	Build(typeName string, params map[string]any) (Component, error)
}
