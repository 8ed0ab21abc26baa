// Package flow provides the control-flow components used to build
// branching and looping pipelines: threshold branching, remainder
// fan-out, a stateful accumulator and a wildcard passthrough.
package flow

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgraph/internal/coerce"
	"github.com/vk/flowgraph/internal/pipeline"
	"github.com/vk/flowgraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register plugs this package's component factories into the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("flow.threshold", func(params map[string]any) (pipeline.Component, error) {
		threshold := 10
		if v, ok := params["threshold"]; ok {
			n, err := coerce.Int(v)
			if err != nil {
				return nil, fmt.Errorf("parameter 'threshold': %w", err)
			}
			threshold = n
		}
		return NewThreshold(threshold), nil
	})
	r.Register("flow.remainder", func(params map[string]any) (pipeline.Component, error) {
		divisor := 3
		if v, ok := params["divisor"]; ok {
			n, err := coerce.Int(v)
			if err != nil {
				return nil, fmt.Errorf("parameter 'divisor': %w", err)
			}
			divisor = n
		}
		return NewRemainder(divisor)
	})
	r.Register("flow.accumulate", func(params map[string]any) (pipeline.Component, error) {
		return NewAccumulate(), nil
	})
	r.Register("flow.identity", func(params map[string]any) (pipeline.Component, error) {
		return NewIdentity(), nil
	})
}

// Threshold routes its input to exactly one of two outputs: 'above'
// when the value meets the threshold, 'below' otherwise. Only the taken
// branch produces a value, so the untaken branch's receivers stay idle.
type Threshold struct {
	threshold int
}

// NewThreshold creates the component with the given cutoff.
func NewThreshold(threshold int) *Threshold {
	return &Threshold{threshold: threshold}
}

// Inputs declares the component's input sockets.
func (t *Threshold) Inputs() []pipeline.InputSocket {
	return []pipeline.InputSocket{pipeline.NewInput("value", cty.Number)}
}

// Outputs declares the component's output sockets.
func (t *Threshold) Outputs() []pipeline.OutputSocket {
	return []pipeline.OutputSocket{
		pipeline.NewOutput("above", cty.Number),
		pipeline.NewOutput("below", cty.Number),
	}
}

// Run emits the value on the branch matching the comparison.
func (t *Threshold) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	value, err := coerce.Int(inputs["value"])
	if err != nil {
		return nil, fmt.Errorf("input 'value': %w", err)
	}
	if value >= t.threshold {
		return map[string]any{"above": value}, nil
	}
	return map[string]any{"below": value}, nil
}

// TypeName implements pipeline.Describable.
func (t *Threshold) TypeName() string { return "flow.threshold" }

// InitParameters implements pipeline.Describable.
func (t *Threshold) InitParameters() map[string]any {
	return map[string]any{"threshold": t.threshold}
}

// Remainder fans its input out over one of 'divisor' outputs, named
// remainder_is_0 through remainder_is_N-1, according to value % divisor.
type Remainder struct {
	divisor int
}

// NewRemainder creates the component. The divisor must be positive.
func NewRemainder(divisor int) (*Remainder, error) {
	if divisor <= 0 {
		return nil, fmt.Errorf("divisor must be positive, got %d", divisor)
	}
	return &Remainder{divisor: divisor}, nil
}

// Inputs declares the component's input sockets.
func (r *Remainder) Inputs() []pipeline.InputSocket {
	return []pipeline.InputSocket{pipeline.NewInput("value", cty.Number)}
}

// Outputs declares the component's output sockets.
func (r *Remainder) Outputs() []pipeline.OutputSocket {
	outs := make([]pipeline.OutputSocket, 0, r.divisor)
	for i := 0; i < r.divisor; i++ {
		outs = append(outs, pipeline.NewOutput(fmt.Sprintf("remainder_is_%d", i), cty.Number))
	}
	return outs
}

// Run emits the value on the single output matching its remainder.
func (r *Remainder) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	value, err := coerce.Int(inputs["value"])
	if err != nil {
		return nil, fmt.Errorf("input 'value': %w", err)
	}
	rem := value % r.divisor
	if rem < 0 {
		rem += r.divisor
	}
	return map[string]any{fmt.Sprintf("remainder_is_%d", rem): value}, nil
}

// TypeName implements pipeline.Describable.
func (r *Remainder) TypeName() string { return "flow.remainder" }

// InitParameters implements pipeline.Describable.
func (r *Remainder) InitParameters() map[string]any {
	return map[string]any{"divisor": r.divisor}
}

// Accumulate keeps a running total across visits within and across
// runs, which makes it useful as loop state. Each run adds the input to
// the total and emits the new total.
type Accumulate struct {
	total int
}

// NewAccumulate creates the component with a zero total.
func NewAccumulate() *Accumulate { return &Accumulate{} }

// Inputs declares the component's input sockets.
func (a *Accumulate) Inputs() []pipeline.InputSocket {
	return []pipeline.InputSocket{pipeline.NewInput("value", cty.Number)}
}

// Outputs declares the component's output sockets.
func (a *Accumulate) Outputs() []pipeline.OutputSocket {
	return []pipeline.OutputSocket{pipeline.NewOutput("value", cty.Number)}
}

// Run adds the input to the running total.
func (a *Accumulate) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	value, err := coerce.Int(inputs["value"])
	if err != nil {
		return nil, fmt.Errorf("input 'value': %w", err)
	}
	a.total += value
	return map[string]any{"value": a.total}, nil
}

// Total returns the accumulated value.
func (a *Accumulate) Total() int { return a.total }

// TypeName implements pipeline.Describable.
func (a *Accumulate) TypeName() string { return "flow.accumulate" }

// InitParameters implements pipeline.Describable.
func (a *Accumulate) InitParameters() map[string]any { return map[string]any{} }

// Identity passes any value through unchanged. Its wildcard sockets
// connect to anything, which makes it handy as a junction or probe.
type Identity struct{}

// NewIdentity creates the component.
func NewIdentity() *Identity { return &Identity{} }

// Inputs declares the component's input sockets.
func (i *Identity) Inputs() []pipeline.InputSocket {
	return []pipeline.InputSocket{pipeline.NewInput("value", pipeline.Wildcard)}
}

// Outputs declares the component's output sockets.
func (i *Identity) Outputs() []pipeline.OutputSocket {
	return []pipeline.OutputSocket{pipeline.NewOutput("value", pipeline.Wildcard)}
}

// Run passes the input through.
func (i *Identity) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	return map[string]any{"value": inputs["value"]}, nil
}

// TypeName implements pipeline.Describable.
func (i *Identity) TypeName() string { return "flow.identity" }

// InitParameters implements pipeline.Describable.
func (i *Identity) InitParameters() map[string]any { return map[string]any{} }
