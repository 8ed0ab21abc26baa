package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgraph/internal/pipeline"
	"github.com/vk/flowgraph/internal/registry"
	"github.com/vk/flowgraph/modules/arith"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	(&arith.Module{}).Register(r)
	return r
}

func buildSamplePipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	p := pipeline.New(
		pipeline.WithMetadata(map[string]any{"test": "test"}),
		pipeline.WithMaxLoops(42),
	)
	require.NoError(t, p.AddComponent("add_two", arith.NewAddFixedValue(2)))
	require.NoError(t, p.AddComponent("add_default", arith.NewAddFixedValue(1)))
	require.NoError(t, p.AddComponent("double", arith.NewDouble()))
	require.NoError(t, p.Connect("add_two", "double"))
	require.NoError(t, p.Connect("double", "add_default"))
	return p
}

func TestDefinition(t *testing.T) {
	p := buildSamplePipeline(t)

	def, err := p.Definition()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"test": "test"}, def.Metadata)
	assert.Equal(t, 42, def.MaxLoopsAllowed)
	assert.Equal(t, map[string]pipeline.ComponentDefinition{
		"add_two":     {Type: "arith.add_fixed_value", InitParameters: map[string]any{"add": 2}},
		"add_default": {Type: "arith.add_fixed_value", InitParameters: map[string]any{"add": 1}},
		"double":      {Type: "arith.double", InitParameters: map[string]any{}},
	}, def.Components)
	assert.Equal(t, []pipeline.ConnectionDefinition{
		{Sender: "add_two.result", Receiver: "double.value"},
		{Sender: "double.value", Receiver: "add_default.value"},
	}, def.Connections)
}

func TestDefinitionRequiresDescribable(t *testing.T) {
	p := pipeline.New()
	require.NoError(t, p.AddComponent("anon", producer("x")))

	// testutil components describe themselves, so strip that by
	// wrapping in a bare component type.
	p2 := pipeline.New()
	require.NoError(t, p2.AddComponent("bare", bareComponent{}))
	_, err := p2.Definition()
	require.Error(t, err)
	var pipeErr *pipeline.Error
	require.ErrorAs(t, err, &pipeErr)
	assert.Contains(t, err.Error(), "not serializable")

	_, err = p.Definition()
	require.NoError(t, err)
}

func TestFromDefinitionRoundTrip(t *testing.T) {
	p := buildSamplePipeline(t)
	def, err := p.Definition()
	require.NoError(t, err)

	rebuilt, err := pipeline.FromDefinition(def, newRegistry(t), nil)
	require.NoError(t, err)

	assert.Equal(t, p.Metadata(), rebuilt.Metadata())
	assert.Equal(t, p.MaxLoopsAllowed(), rebuilt.MaxLoopsAllowed())
	assert.ElementsMatch(t, p.ComponentNames(), rebuilt.ComponentNames())

	rebuiltDef, err := rebuilt.Definition()
	require.NoError(t, err)
	assert.Equal(t, def.Components, rebuiltDef.Components)
	assert.ElementsMatch(t, def.Connections, rebuiltDef.Connections)
}

func TestFromDefinitionWithInstances(t *testing.T) {
	addTwo := arith.NewAddFixedValue(2)
	def := &pipeline.Definition{
		MaxLoopsAllowed: 100,
		Components: map[string]pipeline.ComponentDefinition{
			"add_two": {},
			"double":  {Type: "arith.double"},
		},
		Connections: []pipeline.ConnectionDefinition{
			{Sender: "add_two.result", Receiver: "double.value"},
		},
	}

	p, err := pipeline.FromDefinition(def, newRegistry(t), map[string]pipeline.Component{
		"add_two": addTwo,
	})
	require.NoError(t, err)
	assert.Same(t, addTwo, p.Component("add_two"))
	assert.Len(t, p.Connections(), 1)
}

func TestFromDefinitionErrors(t *testing.T) {
	t.Run("missing type", func(t *testing.T) {
		def := &pipeline.Definition{
			Components: map[string]pipeline.ComponentDefinition{
				"add_two": {InitParameters: map[string]any{"add": 2}},
			},
		}
		_, err := pipeline.FromDefinition(def, newRegistry(t), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing 'type' in component 'add_two'")
	})

	t.Run("unregistered type", func(t *testing.T) {
		def := &pipeline.Definition{
			Components: map[string]pipeline.ComponentDefinition{
				"add_two": {Type: "foo.bar.baz"},
			},
		}
		_, err := pipeline.FromDefinition(def, newRegistry(t), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not registered")
	})

	t.Run("missing sender", func(t *testing.T) {
		def := &pipeline.Definition{
			Connections: []pipeline.ConnectionDefinition{{Receiver: "some.receiver"}},
		}
		_, err := pipeline.FromDefinition(def, newRegistry(t), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing sender in connection: {receiver: some.receiver}")
	})

	t.Run("missing receiver", func(t *testing.T) {
		def := &pipeline.Definition{
			Connections: []pipeline.ConnectionDefinition{{Sender: "some.sender"}},
		}
		_, err := pipeline.FromDefinition(def, newRegistry(t), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing receiver in connection: {sender: some.sender}")
	})
}

func TestDefinitionYAMLRoundTrip(t *testing.T) {
	p := buildSamplePipeline(t)
	def, err := p.Definition()
	require.NoError(t, err)

	data, err := pipeline.MarshalDefinition(def)
	require.NoError(t, err)

	parsed, err := pipeline.UnmarshalDefinition(data)
	require.NoError(t, err)
	assert.Equal(t, def.MaxLoopsAllowed, parsed.MaxLoopsAllowed)
	assert.Equal(t, def.Connections, parsed.Connections)
	for name, comp := range def.Components {
		assert.Equal(t, comp.Type, parsed.Components[name].Type)
	}

	_, err = pipeline.UnmarshalDefinition([]byte("{not yaml"))
	require.Error(t, err)
}

// bareComponent implements only pipeline.Component, not Describable.
type bareComponent struct{}

func (bareComponent) Inputs() []pipeline.InputSocket   { return nil }
func (bareComponent) Outputs() []pipeline.OutputSocket { return nil }
func (bareComponent) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	return map[string]any{}, nil
}
