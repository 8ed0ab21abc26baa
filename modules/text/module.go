// Package text provides string-handling components: greeting
// passthrough, variadic concatenation and text cleanup.
package text

import (
	"context"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgraph/internal/coerce"
	"github.com/vk/flowgraph/internal/ctxlog"
	"github.com/vk/flowgraph/internal/pipeline"
	"github.com/vk/flowgraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register plugs this package's component factories into the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("text.greet", func(params map[string]any) (pipeline.Component, error) {
		message := "Hello, I'm processing this value!"
		if v, ok := params["message"]; ok {
			s, err := coerce.String(v)
			if err != nil {
				return nil, fmt.Errorf("parameter 'message': %w", err)
			}
			message = s
		}
		return NewGreet(message), nil
	})
	r.Register("text.concatenate", func(params map[string]any) (pipeline.Component, error) {
		separator := ""
		if v, ok := params["separator"]; ok {
			s, err := coerce.String(v)
			if err != nil {
				return nil, fmt.Errorf("parameter 'separator': %w", err)
			}
			separator = s
		}
		return NewConcatenate(separator), nil
	})
	r.Register("text.cleaner", func(params map[string]any) (pipeline.Component, error) {
		c := NewCleaner()
		if v, ok := params["remove_substrings"]; ok {
			subs, err := coerce.Strings(v)
			if err != nil {
				return nil, fmt.Errorf("parameter 'remove_substrings': %w", err)
			}
			c.removeSubstrings = subs
		}
		if v, ok := params["trim_whitespace"]; ok {
			b, err := coerce.Bool(v)
			if err != nil {
				return nil, fmt.Errorf("parameter 'trim_whitespace': %w", err)
			}
			c.trimWhitespace = b
		}
		return c, nil
	})
}

// Greet logs a message when a value passes through it, leaving the
// value untouched. The message can be overridden per run.
type Greet struct {
	message string
}

// NewGreet creates the component with the given message.
func NewGreet(message string) *Greet { return &Greet{message: message} }

// Inputs declares the component's input sockets.
func (g *Greet) Inputs() []pipeline.InputSocket {
	return []pipeline.InputSocket{
		pipeline.NewInput("value", cty.Number),
		pipeline.NewInputWithDefault("message", cty.String, g.message),
	}
}

// Outputs declares the component's output sockets.
func (g *Greet) Outputs() []pipeline.OutputSocket {
	return []pipeline.OutputSocket{pipeline.NewOutput("value", cty.Number)}
}

// Run logs the message and passes the value through.
func (g *Greet) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	message, err := coerce.String(inputs["message"])
	if err != nil {
		return nil, fmt.Errorf("input 'message': %w", err)
	}
	ctxlog.FromContext(ctx).Info(message, "value", inputs["value"])
	return map[string]any{"value": inputs["value"]}, nil
}

// TypeName implements pipeline.Describable.
func (g *Greet) TypeName() string { return "text.greet" }

// InitParameters implements pipeline.Describable.
func (g *Greet) InitParameters() map[string]any {
	return map[string]any{"message": g.message}
}

// Concatenate is a multiplexer for strings: it joins all values pending
// on its variadic 'parts' socket with a separator.
type Concatenate struct {
	separator string
}

// NewConcatenate creates the component with the given separator.
func NewConcatenate(separator string) *Concatenate {
	return &Concatenate{separator: separator}
}

// Inputs declares the component's input sockets.
func (c *Concatenate) Inputs() []pipeline.InputSocket {
	return []pipeline.InputSocket{pipeline.NewVariadicInput("parts", cty.String)}
}

// Outputs declares the component's output sockets.
func (c *Concatenate) Outputs() []pipeline.OutputSocket {
	return []pipeline.OutputSocket{pipeline.NewOutput("value", cty.String)}
}

// Run joins all pending parts.
func (c *Concatenate) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	parts, _ := inputs["parts"].([]any)
	joined := make([]string, 0, len(parts))
	for _, p := range parts {
		s, err := coerce.String(p)
		if err != nil {
			return nil, fmt.Errorf("input 'parts': %w", err)
		}
		joined = append(joined, s)
	}
	return map[string]any{"value": strings.Join(joined, c.separator)}, nil
}

// TypeName implements pipeline.Describable.
func (c *Concatenate) TypeName() string { return "text.concatenate" }

// InitParameters implements pipeline.Describable.
func (c *Concatenate) InitParameters() map[string]any {
	return map[string]any{"separator": c.separator}
}

// Cleaner normalizes a text value: optional substring removal and
// whitespace collapsing.
type Cleaner struct {
	removeSubstrings []string
	trimWhitespace   bool
}

// NewCleaner creates the component with whitespace trimming enabled and
// no substrings to remove.
func NewCleaner() *Cleaner { return &Cleaner{trimWhitespace: true} }

// Inputs declares the component's input sockets.
func (c *Cleaner) Inputs() []pipeline.InputSocket {
	return []pipeline.InputSocket{pipeline.NewInput("text", cty.String)}
}

// Outputs declares the component's output sockets.
func (c *Cleaner) Outputs() []pipeline.OutputSocket {
	return []pipeline.OutputSocket{pipeline.NewOutput("text", cty.String)}
}

// Run applies the configured cleanup steps in order: substring removal
// first, then whitespace normalization.
func (c *Cleaner) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	text, err := coerce.String(inputs["text"])
	if err != nil {
		return nil, fmt.Errorf("input 'text': %w", err)
	}
	for _, sub := range c.removeSubstrings {
		text = strings.ReplaceAll(text, sub, "")
	}
	if c.trimWhitespace {
		text = strings.Join(strings.Fields(text), " ")
	}
	return map[string]any{"text": text}, nil
}

// TypeName implements pipeline.Describable.
func (c *Cleaner) TypeName() string { return "text.cleaner" }

// InitParameters implements pipeline.Describable.
func (c *Cleaner) InitParameters() map[string]any {
	return map[string]any{
		"remove_substrings": c.removeSubstrings,
		"trim_whitespace":   c.trimWhitespace,
	}
}
