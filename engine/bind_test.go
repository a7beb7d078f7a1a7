package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bv(name string, v Value) BoundValue { return BoundValue{Name: name, Value: v} }

func TestBindQuestionMark(t *testing.T) {
	text := "select * from t where id = " + sentinelFor(0)
	values := map[string]BoundValue{sentinelFor(0): bv("id", Scalar(5))}
	sql, args, named, err := Bind(text, values, DialectQuestionMark)
	require.NoError(t, err)
	assert.Equal(t, "select * from t where id = ?", sql)
	assert.Equal(t, []any{5}, args)
	assert.Empty(t, named)
}

func TestBindNamedColonUsesNameAndPerNameIndex(t *testing.T) {
	text := sentinelFor(0) + " " + sentinelFor(1) + " " + sentinelFor(2)
	values := map[string]BoundValue{
		sentinelFor(0): bv("ids", Scalar("a")),
		sentinelFor(1): bv("ids", Scalar("b")),
		sentinelFor(2): bv("limit", Scalar(10)),
	}
	sql, args, named, err := Bind(text, values, Dialect{Placeholder: NamedColon})
	require.NoError(t, err)
	assert.Equal(t, ":ids_0 :ids_1 :limit_0", sql)
	assert.Equal(t, []any{"a", "b", 10}, args)
	assert.Equal(t, map[string]any{"ids_0": "a", "ids_1": "b", "limit_0": 10}, named)
}

func TestBindMissingSentinelErrors(t *testing.T) {
	text := sentinelFor(0)
	_, _, _, err := Bind(text, map[string]BoundValue{}, DialectQuestionMark)
	require.Error(t, err)
	pe, ok := err.(ParseError)
	require.True(t, ok)
	assert.Equal(t, DialectError, pe.Kind)
}

func TestBindNullAndBoolValues(t *testing.T) {
	text := sentinelFor(0) + " " + sentinelFor(1)
	values := map[string]BoundValue{sentinelFor(0): bv("a", Null()), sentinelFor(1): bv("b", Bool(true))}
	_, args, _, err := Bind(text, values, DialectQuestionMark)
	require.NoError(t, err)
	assert.Equal(t, []any{nil, true}, args)
}

func TestSplitOversizedInListsBelowLimitUnchanged(t *testing.T) {
	text := "id IN (" + sentinelFor(0) + ", " + sentinelFor(1) + ")"
	out, err := splitOversizedInLists(text, 5)
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

func TestSplitOversizedInListsAboveLimit(t *testing.T) {
	text := "id IN (" + sentinelFor(0) + ", " + sentinelFor(1) + ", " + sentinelFor(2) + ")"
	out, err := splitOversizedInLists(text, 2)
	require.NoError(t, err)
	assert.Contains(t, out, "OR")
	assert.Contains(t, out, "id IN")
}

func TestSplitOversizedNotInListsUsesAnd(t *testing.T) {
	text := "id NOT IN (" + sentinelFor(0) + ", " + sentinelFor(1) + ", " + sentinelFor(2) + ")"
	out, err := splitOversizedInLists(text, 2)
	require.NoError(t, err)
	assert.Contains(t, out, "AND")
	assert.Contains(t, out, "NOT IN")
}

func TestPlaceholderForStyles(t *testing.T) {
	assert.Equal(t, "?", placeholderFor(Dialect{Placeholder: QuestionMark}, "id", 1))
	assert.Equal(t, "%s", placeholderFor(Dialect{Placeholder: PercentS}, "id", 1))
	assert.Equal(t, ":id_3", placeholderFor(Dialect{Placeholder: NamedColon}, "id", 3))
}
