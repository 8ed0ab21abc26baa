package coerce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgraph/internal/coerce"
)

func TestInt(t *testing.T) {
	for _, v := range []any{42, int64(42), float64(42), float32(42)} {
		n, err := coerce.Int(v)
		require.NoError(t, err, "%T", v)
		assert.Equal(t, 42, n)
	}

	_, err := coerce.Int(4.2)
	require.Error(t, err)
	_, err = coerce.Int("42")
	require.Error(t, err)
}

func TestFloat(t *testing.T) {
	f, err := coerce.Float(3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	f, err = coerce.Float(0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	_, err = coerce.Float("0.5")
	require.Error(t, err)
}

func TestStringAndBool(t *testing.T) {
	s, err := coerce.String("hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
	_, err = coerce.String(1)
	require.Error(t, err)

	b, err := coerce.Bool(true)
	require.NoError(t, err)
	assert.True(t, b)
	_, err = coerce.Bool("true")
	require.Error(t, err)
}

func TestStrings(t *testing.T) {
	list, err := coerce.Strings([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list)

	list, err = coerce.Strings([]string{"c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, list)

	_, err = coerce.Strings([]any{1})
	require.Error(t, err)
	_, err = coerce.Strings("a")
	require.Error(t, err)
}
