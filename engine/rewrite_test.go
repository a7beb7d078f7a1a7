package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func chainLines(raws ...string) *LogicalLine {
	root := &LogicalLine{Indent: -1}
	for _, r := range raws {
		child := &LogicalLine{Raw: r, Parent: root}
		root.Children = append(root.Children, child)
	}
	return root
}

func TestRewriteJoinsSurvivingLines(t *testing.T) {
	root := chainLines("select *", "from t")
	assert.Equal(t, "select *\nfrom t", Rewrite(root))
}

func TestRewriteSkipsRemovedLines(t *testing.T) {
	root := chainLines("select *", "from t")
	root.Children[0].Removed = false
	root.Children[1].Removed = true
	assert.Equal(t, "select *", Rewrite(root))
}

func TestRewriteStripsLeadingConnectiveFromFirstSurvivor(t *testing.T) {
	root := &LogicalLine{Indent: -1}
	first := &LogicalLine{Raw: "AND a = 1", Removed: true}
	second := &LogicalLine{Raw: "AND b = 2"}
	third := &LogicalLine{Raw: "AND c = 3"}
	root.Children = []*LogicalLine{first, second, third}
	out := Rewrite(root)
	assert.Equal(t, "b = 2\nAND c = 3", out)
}

func TestRewriteCollapsesOrphanWhere(t *testing.T) {
	root := chainLines("select *", "from t", "where", "order by id")
	assert.NotContains(t, Rewrite(root), "where")
}

func TestRewriteCollapsesEmptyParens(t *testing.T) {
	root := chainLines("select * from t where id in ( )")
	assert.Contains(t, Rewrite(root), "id in ()")
}

func TestRewriteStripsDanglingTrailingComma(t *testing.T) {
	root := chainLines("select a,", "from t")
	assert.Equal(t, "select a\nfrom t", Rewrite(root))
}

func TestRewriteCollapsesBlankLineRuns(t *testing.T) {
	root := chainLines("a", "", "", "", "b")
	out := Rewrite(root)
	assert.NotContains(t, out, "\n\n\n")
}
