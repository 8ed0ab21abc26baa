// Package testutil provides a configurable fake component for engine
// tests, so socket layouts and behaviors can be declared inline without
// defining a new type per test.
package testutil

import (
	"context"

	"github.com/vk/flowgraph/internal/pipeline"
)

// RunFunc is the execution behavior of a fake component.
type RunFunc func(ctx context.Context, inputs map[string]any) (map[string]any, error)

// Component is a configurable pipeline.Component. It records how often
// it ran, which loop tests rely on.
type Component struct {
	inputs   []pipeline.InputSocket
	outputs  []pipeline.OutputSocket
	runFn    RunFunc
	typeName string
	params   map[string]any

	// Runs counts executions. The engine is single-threaded, so a
	// plain int is safe.
	Runs int
}

// NewComponent builds a fake component with the given socket layout and
// behavior. A nil run function returns an empty output mapping.
func NewComponent(inputs []pipeline.InputSocket, outputs []pipeline.OutputSocket, run RunFunc) *Component {
	return &Component{
		inputs:   inputs,
		outputs:  outputs,
		runFn:    run,
		typeName: "testutil.component",
		params:   map[string]any{},
	}
}

// WithDescription overrides the type name and init parameters reported
// for serialization.
func (c *Component) WithDescription(typeName string, params map[string]any) *Component {
	c.typeName = typeName
	c.params = params
	return c
}

// Inputs implements pipeline.Component.
func (c *Component) Inputs() []pipeline.InputSocket { return c.inputs }

// Outputs implements pipeline.Component.
func (c *Component) Outputs() []pipeline.OutputSocket { return c.outputs }

// Run implements pipeline.Component.
func (c *Component) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	c.Runs++
	if c.runFn == nil {
		return map[string]any{}, nil
	}
	return c.runFn(ctx, inputs)
}

// TypeName implements pipeline.Describable.
func (c *Component) TypeName() string { return c.typeName }

// InitParameters implements pipeline.Describable.
func (c *Component) InitParameters() map[string]any { return c.params }
