package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgraph/internal/cli"
)

const sampleDefinition = `
pipeline {
  max_loops_allowed = 10
}

component "arith.add_fixed_value" "first" {
  params {
    add = 2
  }
}

component "arith.double" "doubler" {}

connect {
  from = "first.result"
  to   = "doubler.value"
}

input "first" {
  value = 3
}
`

func writeDefinition(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunExecutesPipeline(t *testing.T) {
	path := writeDefinition(t, sampleDefinition)

	var out bytes.Buffer
	err := run(&out, []string{"-log-level", "error", path})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "doubler:")
	assert.Contains(t, out.String(), "value: 10")
}

func TestRunWithSetOverride(t *testing.T) {
	path := writeDefinition(t, sampleDefinition)

	var out bytes.Buffer
	err := run(&out, []string{"-log-level", "error", "-set", "first.value=10", path})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "value: 24")
}

func TestRunDrawsDiagram(t *testing.T) {
	path := writeDefinition(t, sampleDefinition)

	var out bytes.Buffer
	err := run(&out, []string{"-log-level", "error", "-draw", "mermaid", path})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "graph TD")
	assert.Contains(t, out.String(), `first -- "result -> value" --> doubler`)
}

func TestRunNoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRunRejectsInvalidFlags(t *testing.T) {
	path := writeDefinition(t, sampleDefinition)

	var out bytes.Buffer
	err := run(&out, []string{"-log-format", "bogus", path})
	require.Error(t, err)

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRunFailsOnMissingDefinition(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, []string{"-log-level", "error", filepath.Join(t.TempDir(), "absent.hcl")})
	require.Error(t, err)
}
