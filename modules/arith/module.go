// Package arith provides the numeric building-block components:
// fixed-value addition, doubling, subtraction and a variadic sum.
package arith

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
	r.Register("arith.add_fixed_value", func(params map[string]any) (pipeline.Component, error) {
		add := 1
		if v, ok := params["add"]; ok {
			n, err := coerce.Int(v)
			if err != nil {
				return nil, fmt.Errorf("parameter 'add': %w", err)
			}
			add = n
		}
		return NewAddFixedValue(add), nil
	})
	r.Register("arith.double", func(params map[string]any) (pipeline.Component, error) {
		return NewDouble(), nil
	})
	r.Register("arith.subtract", func(params map[string]any) (pipeline.Component, error) {
		return NewSubtract(), nil
	})
	r.Register("arith.sum", func(params map[string]any) (pipeline.Component, error) {
		return NewSum(), nil
	})
}

// AddFixedValue adds a fixed addend to its input. The addend can be
// overridden per run through the optional 'add' socket.
type AddFixedValue struct {
	add int
}

// NewAddFixedValue creates the component with the given addend.
func NewAddFixedValue(add int) *AddFixedValue {
	return &AddFixedValue{add: add}
}

// Inputs declares the component's input sockets.
func (a *AddFixedValue) Inputs() []pipeline.InputSocket {
	return []pipeline.InputSocket{
		pipeline.NewInput("value", cty.Number),
		pipeline.NewInputWithDefault("add", cty.Number, a.add),
	}
}

// Outputs declares the component's output sockets.
func (a *AddFixedValue) Outputs() []pipeline.OutputSocket {
	return []pipeline.OutputSocket{pipeline.NewOutput("result", cty.Number)}
}

// Run adds the addend to the input value.
func (a *AddFixedValue) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	value, err := coerce.Int(inputs["value"])
	if err != nil {
		return nil, fmt.Errorf("input 'value': %w", err)
	}
	add, err := coerce.Int(inputs["add"])
	if err != nil {
		return nil, fmt.Errorf("input 'add': %w", err)
	}
	return map[string]any{"result": value + add}, nil
}

// TypeName implements pipeline.Describable.
func (a *AddFixedValue) TypeName() string { return "arith.add_fixed_value" }

// InitParameters implements pipeline.Describable.
func (a *AddFixedValue) InitParameters() map[string]any {
	return map[string]any{"add": a.add}
}

// Double multiplies its input by two. Its output socket is named
// 'value' like its input, so name matching can disambiguate chains of
// numeric components.
type Double struct{}

// NewDouble creates the component.
func NewDouble() *Double { return &Double{} }

// Inputs declares the component's input sockets.
func (d *Double) Inputs() []pipeline.InputSocket {
	return []pipeline.InputSocket{pipeline.NewInput("value", cty.Number)}
}

// Outputs declares the component's output sockets.
func (d *Double) Outputs() []pipeline.OutputSocket {
	return []pipeline.OutputSocket{pipeline.NewOutput("value", cty.Number)}
}

// Run doubles the input value.
func (d *Double) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	value, err := coerce.Int(inputs["value"])
	if err != nil {
		return nil, fmt.Errorf("input 'value': %w", err)
	}
	return map[string]any{"value": value * 2}, nil
}

// TypeName implements pipeline.Describable.
func (d *Double) TypeName() string { return "arith.double" }

// InitParameters implements pipeline.Describable.
func (d *Double) InitParameters() map[string]any { return map[string]any{} }

// Subtract computes first_value - second_value.
type Subtract struct{}

// NewSubtract creates the component.
func NewSubtract() *Subtract { return &Subtract{} }

// Inputs declares the component's input sockets.
func (s *Subtract) Inputs() []pipeline.InputSocket {
	return []pipeline.InputSocket{
		pipeline.NewInput("first_value", cty.Number),
		pipeline.NewInput("second_value", cty.Number),
	}
}

// Outputs declares the component's output sockets.
func (s *Subtract) Outputs() []pipeline.OutputSocket {
	return []pipeline.OutputSocket{pipeline.NewOutput("difference", cty.Number)}
}

// Run subtracts the second input from the first.
func (s *Subtract) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	first, err := coerce.Int(inputs["first_value"])
	if err != nil {
		return nil, fmt.Errorf("input 'first_value': %w", err)
	}
	second, err := coerce.Int(inputs["second_value"])
	if err != nil {
		return nil, fmt.Errorf("input 'second_value': %w", err)
	}
	return map[string]any{"difference": first - second}, nil
}

// TypeName implements pipeline.Describable.
func (s *Subtract) TypeName() string { return "arith.subtract" }

// InitParameters implements pipeline.Describable.
func (s *Subtract) InitParameters() map[string]any { return map[string]any{} }

// Sum is a multiplexer: its variadic 'values' socket accepts any number
// of senders, and each run totals whatever values are pending for the
// current cycle.
type Sum struct{}

// NewSum creates the component.
func NewSum() *Sum { return &Sum{} }

// Inputs declares the component's input sockets.
func (s *Sum) Inputs() []pipeline.InputSocket {
	return []pipeline.InputSocket{pipeline.NewVariadicInput("values", cty.Number)}
}

// Outputs declares the component's output sockets.
func (s *Sum) Outputs() []pipeline.OutputSocket {
	return []pipeline.OutputSocket{pipeline.NewOutput("total", cty.Number)}
}

// Run totals all pending values.
func (s *Sum) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	values, _ := inputs["values"].([]any)
	total := 0
	for _, v := range values {
		n, err := coerce.Int(v)
		if err != nil {
			return nil, fmt.Errorf("input 'values': %w", err)
		}
		total += n
	}
	return map[string]any{"total": total}, nil
}

// TypeName implements pipeline.Describable.
func (s *Sum) TypeName() string { return "arith.sum" }

// InitParameters implements pipeline.Describable.
func (s *Sum) InitParameters() map[string]any { return map[string]any{} }
