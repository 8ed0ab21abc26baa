package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParseSocketSpec(t *testing.T) {
	tests := []struct {
		spec      string
		component string
		socket    string
	}{
		{"comp", "comp", ""},
		{"comp.value", "comp", "value"},
		{"comp.outer.inner", "comp", "outer.inner"},
		{"", "", ""},
	}
	for _, tc := range tests {
		component, socket := parseSocketSpec(tc.spec)
		assert.Equal(t, tc.component, component, "spec %q", tc.spec)
		assert.Equal(t, tc.socket, socket, "spec %q", tc.spec)
	}
}

func TestTypesCompatible(t *testing.T) {
	tests := []struct {
		name       string
		out, in    cty.Type
		compatible bool
	}{
		{"equal primitives", cty.Number, cty.Number, true},
		{"mismatched primitives", cty.Number, cty.String, false},
		{"wildcard input", cty.Number, Wildcard, true},
		{"wildcard output", Wildcard, cty.String, true},
		{"equal lists", cty.List(cty.Number), cty.List(cty.Number), true},
		{"mismatched element types", cty.List(cty.Number), cty.List(cty.String), false},
		{"wildcard list element", cty.List(cty.String), cty.List(Wildcard), true},
		{"list vs primitive", cty.List(cty.Number), cty.Number, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.compatible, typesCompatible(tc.out, tc.in))
		})
	}
}

func TestInputAvailable(t *testing.T) {
	t.Run("unclaimed socket accepts anyone", func(t *testing.T) {
		in := NewInput("value", cty.Number)
		assert.True(t, inputAvailable(&in, "a"))
	})

	t.Run("claimed socket rejects a different sender", func(t *testing.T) {
		in := NewInput("value", cty.Number)
		in.Senders = []string{"a"}
		assert.False(t, inputAvailable(&in, "b"))
		assert.True(t, inputAvailable(&in, "a"))
	})

	t.Run("variadic socket accepts many senders", func(t *testing.T) {
		in := NewVariadicInput("values", cty.Number)
		in.Senders = []string{"a", "b"}
		assert.True(t, inputAvailable(&in, "c"))
	})
}

func TestFindUnambiguousConnection(t *testing.T) {
	out := NewOutput("result", cty.Number)
	in := NewInput("value", cty.Number)

	t.Run("single candidate wins", func(t *testing.T) {
		pair, err := findUnambiguousConnection("a", "b",
			[]*OutputSocket{&out}, []*InputSocket{&in})
		require.NoError(t, err)
		assert.Equal(t, "result", pair.out.Name)
		assert.Equal(t, "value", pair.in.Name)
	})

	t.Run("no candidates reports socket status", func(t *testing.T) {
		strIn := NewInput("text", cty.String)
		_, err := findUnambiguousConnection("a", "b",
			[]*OutputSocket{&out}, []*InputSocket{&strIn})
		require.Error(t, err)
		var connErr *ConnectError
		require.ErrorAs(t, err, &connErr)
		assert.Contains(t, connErr.Error(), "no matching connections available")
		assert.Contains(t, connErr.Error(), "result (number)")
		assert.Contains(t, connErr.Error(), "text (string), available")
	})

	t.Run("name match breaks ties", func(t *testing.T) {
		outValue := NewOutput("value", cty.Number)
		otherIn := NewInput("other", cty.Number)
		pair, err := findUnambiguousConnection("a", "b",
			[]*OutputSocket{&out, &outValue}, []*InputSocket{&in, &otherIn})
		require.NoError(t, err)
		assert.Equal(t, "value", pair.out.Name)
		assert.Equal(t, "value", pair.in.Name)
	})

	t.Run("ambiguity without a name match fails", func(t *testing.T) {
		outA := NewOutput("first", cty.Number)
		outB := NewOutput("second", cty.Number)
		inA := NewInput("left", cty.Number)
		inB := NewInput("right", cty.Number)
		_, err := findUnambiguousConnection("a", "b",
			[]*OutputSocket{&outA, &outB}, []*InputSocket{&inA, &inB})
		require.Error(t, err)
		var connErr *ConnectError
		require.ErrorAs(t, err, &connErr)
		assert.Contains(t, connErr.Error(), "more than one connection is possible")
		assert.Contains(t, connErr.Error(), "specify the connection name")
	})
}
