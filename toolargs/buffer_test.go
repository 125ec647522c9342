package toolargs

import (
	"errors"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_RoundTrip(t *testing.T) {
	var b Buffer
	b = b.Append("call-1", `{"city":`)
	b = b.Append("call-1", `"NYC"}`)

	raw, ok := b.Raw("call-1")
	require.True(t, ok)
	assert.Equal(t, `{"city":"NYC"}`, raw)

	value, found, next, err := b.Finalize("call-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, map[string]any{"city": "NYC"}, value)
	assert.False(t, next.Has("call-1"))
	assert.Equal(t, 0, next.Len())
}

func TestBuffer_AppendIsPure(t *testing.T) {
	var empty Buffer
	one := empty.Append("call-1", "{")
	two := one.Append("call-1", "}")

	assert.Equal(t, 0, empty.Len())
	raw, _ := one.Raw("call-1")
	assert.Equal(t, "{", raw)
	raw, _ = two.Raw("call-1")
	assert.Equal(t, "{}", raw)
}

func TestBuffer_IndependentEntries(t *testing.T) {
	var b Buffer
	b = b.Append("a", `{"x":`)
	b = b.Append("b", `{"y":2}`)
	b = b.Append("a", `1}`)

	value, found, next, err := b.Finalize("b")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, map[string]any{"y": float64(2)}, value)
	assert.True(t, next.Has("a"))
	assert.False(t, next.Has("b"))

	value, _, next, err = next.Finalize("a")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": float64(1)}, value)
	assert.Equal(t, 0, next.Len())
}

func TestBuffer_FinalizeMissingEntry(t *testing.T) {
	b := Buffer{}.Append("other", "{}")

	value, found, next, err := b.Finalize("call-1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, value)
	assert.Equal(t, b, next)
}

func TestBuffer_FinalizeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "truncated object", raw: `{"city":`},
		{name: "not json", raw: `city=NYC`},
		{name: "array instead of object", raw: `[1,2]`},
		{name: "string instead of object", raw: `"NYC"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Buffer{}.Append("call-1", tt.raw)

			_, found, next, err := b.Finalize("call-1")
			require.Error(t, err)
			assert.True(t, found)

			var me *MalformedToolArgumentsError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, "call-1", me.ToolCallID)
			assert.Equal(t, tt.raw, me.Raw)
			assert.True(t, next.Has("call-1"), "entry is kept on failure")
		})
	}
}

func TestBuffer_FinalizeEmptyArguments(t *testing.T) {
	b := Buffer{}.Append("call-1", "  ")

	value, found, next, err := b.Finalize("call-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, map[string]any{}, value)
	assert.False(t, next.Has("call-1"))
}

func TestBuffer_ConcatenationProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("raw entry equals deltas concatenated in order", prop.ForAll(
		func(deltas []string) bool {
			var b Buffer
			for _, d := range deltas {
				b = b.Append("call", d)
			}
			raw, ok := b.Raw("call")
			if len(deltas) == 0 {
				return !ok
			}
			return ok && raw == strings.Join(deltas, "")
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
