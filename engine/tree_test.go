package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTreeNestsByIndentation(t *testing.T) {
	lines := []*LogicalLine{
		{Raw: "select *", Indent: 0},
		{Raw: "from t", Indent: 0},
		{Raw: "where", Indent: 0},
		{Raw: "id = 1", Indent: 2},
	}
	root := buildTree(lines)
	require.Len(t, root.Children, 3)
	whereLine := root.Children[2]
	require.Len(t, whereLine.Children, 1)
	assert.Equal(t, "id = 1", whereLine.Children[0].Raw)
	assert.Same(t, whereLine, whereLine.Children[0].Parent)
}

func TestBuildTreeNestsUnderParenGroupRegardlessOfIndent(t *testing.T) {
	lines := []*LogicalLine{
		{Raw: "where id in (", Indent: 0},
		{Raw: "1", Indent: 0},
		{Raw: "2", Indent: 0},
		{Raw: ")", Indent: 0},
	}
	root := buildTree(lines)
	require.Len(t, root.Children, 1)
	opener := root.Children[0]
	assert.Equal(t, "where id in (", opener.Raw)
	require.Len(t, opener.Children, 3)
}

func TestNetParenDeltaIgnoresStringLiterals(t *testing.T) {
	assert.Equal(t, 0, netParenDelta("'(unbalanced'"))
	assert.Equal(t, 1, netParenDelta("foo("))
	assert.Equal(t, -1, netParenDelta("foo)"))
	assert.Equal(t, 0, netParenDelta("(a) (b)"))
}

func TestCTEHeaderPatternRecognizesWithClause(t *testing.T) {
	assert.True(t, cteHeaderPattern.MatchString("with recent as ("))
	assert.True(t, cteHeaderPattern.MatchString("recent as ("))
	assert.True(t, cteHeaderPattern.MatchString("recent (id, name) as ("))
	assert.False(t, cteHeaderPattern.MatchString("select * from recent"))
}

func TestWalkVisitsInPreorder(t *testing.T) {
	root := &LogicalLine{Indent: -1}
	a := &LogicalLine{Raw: "a"}
	b := &LogicalLine{Raw: "b"}
	a.Children = []*LogicalLine{b}
	root.Children = []*LogicalLine{a}

	var seen []string
	walk(root, func(l *LogicalLine) {
		if l != root {
			seen = append(seen, l.Raw)
		}
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}
