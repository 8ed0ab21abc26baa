package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgraph/internal/config"
)

const sampleDefinition = `
pipeline {
  max_loops_allowed = 7
  owner             = "qa"
}

component "arith.add_fixed_value" "first" {
  params {
    add = 2
  }
}

component "arith.double" "second" {}

connect {
  from = "first.result"
  to   = "second.value"
}

input "first" {
  value = 1
}
`

func TestLoadSource(t *testing.T) {
	loader := config.NewLoader()
	model, err := loader.LoadSource(context.Background(), "test.hcl", []byte(sampleDefinition))
	require.NoError(t, err)

	assert.Equal(t, 7, model.MaxLoopsAllowed)
	assert.Equal(t, map[string]any{"owner": "qa"}, model.Metadata)

	require.Len(t, model.Components, 2)
	assert.Equal(t, "arith.add_fixed_value", model.Components[0].Type)
	assert.Equal(t, "first", model.Components[0].Name)
	assert.Equal(t, map[string]any{"add": 2}, model.Components[0].Params)
	assert.Equal(t, "second", model.Components[1].Name)
	assert.Empty(t, model.Components[1].Params)

	require.Len(t, model.Connections, 1)
	assert.Equal(t, "first.result", model.Connections[0].From)
	assert.Equal(t, "second.value", model.Connections[0].To)

	assert.Equal(t, map[string]any{"value": 1}, model.Inputs["first"])
}

func TestLoadSourceComplexValues(t *testing.T) {
	src := `
component "text.cleaner" "clean" {
  params {
    remove_substrings = ["a", "b"]
    trim_whitespace   = true
    limits            = { max = 3, ratio = 0.5 }
  }
}
`
	loader := config.NewLoader()
	model, err := loader.LoadSource(context.Background(), "test.hcl", []byte(src))
	require.NoError(t, err)

	params := model.Components[0].Params
	assert.Equal(t, []any{"a", "b"}, params["remove_substrings"])
	assert.Equal(t, true, params["trim_whitespace"])
	assert.Equal(t, map[string]any{"max": 3, "ratio": 0.5}, params["limits"])
}

func TestLoadSourceInvalidHCL(t *testing.T) {
	loader := config.NewLoader()
	_, err := loader.LoadSource(context.Background(), "broken.hcl", []byte(`component "x" {`))
	require.Error(t, err)
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(sampleDefinition), 0600))

	loader := config.NewLoader()
	model, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, model.Components, 2)
}

func TestLoadMissingPath(t *testing.T) {
	loader := config.NewLoader()
	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)
}

func TestLoadEmptyDirectory(t *testing.T) {
	loader := config.NewLoader()
	_, err := loader.Load(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .hcl definition files")
}
