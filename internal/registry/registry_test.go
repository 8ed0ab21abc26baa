package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgraph/internal/pipeline"
	"github.com/vk/flowgraph/internal/registry"
	"github.com/vk/flowgraph/modules/arith"
)

func TestRegisterAndBuild(t *testing.T) {
	r := registry.New()
	(&arith.Module{}).Register(r)

	instance, err := r.Build("arith.add_fixed_value", map[string]any{"add": 5})
	require.NoError(t, err)

	add, ok := instance.(*arith.AddFixedValue)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"add": 5}, add.InitParameters())
}

func TestBuildUnknownType(t *testing.T) {
	r := registry.New()

	_, err := r.Build("ghost.component", nil)
	require.Error(t, err)
	var pipeErr *pipeline.Error
	require.ErrorAs(t, err, &pipeErr)
	assert.Contains(t, err.Error(), "not registered")
}

func TestBuildFactoryFailure(t *testing.T) {
	r := registry.New()
	(&arith.Module{}).Register(r)

	_, err := r.Build("arith.add_fixed_value", map[string]any{"add": "not a number"})
	require.Error(t, err)
	var pipeErr *pipeline.Error
	require.ErrorAs(t, err, &pipeErr)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := registry.New()
	factory := func(params map[string]any) (pipeline.Component, error) {
		return arith.NewDouble(), nil
	}
	r.Register("dup", factory)
	assert.Panics(t, func() { r.Register("dup", factory) })
}

func TestTypesSorted(t *testing.T) {
	r := registry.New()
	(&arith.Module{}).Register(r)

	types := r.Types()
	assert.Equal(t, []string{
		"arith.add_fixed_value",
		"arith.double",
		"arith.subtract",
		"arith.sum",
	}, types)
}
