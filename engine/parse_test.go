package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBareBindAlwaysKept(t *testing.T) {
	doc, err := Parse("select * from t where id = /*id*/1", "t.sql", Bindings{"id": Scalar(7)}, DialectQuestionMark)
	require.NoError(t, err)
	assert.Equal(t, "select * from t where id = ?", doc.SQL)
	assert.Equal(t, []any{7}, doc.Args)
}

func TestParseBareBindNullWhenAbsent(t *testing.T) {
	doc, err := Parse("select * from t where id = /*id*/1", "t.sql", Bindings{}, DialectQuestionMark)
	require.NoError(t, err)
	assert.Equal(t, "select * from t where id = ?", doc.SQL)
	assert.Equal(t, []any{nil}, doc.Args)
}

func TestParseOptionalModifierRemovesNegativeLine(t *testing.T) {
	src := "select *\nfrom t\nwhere 1=1\nand name = /*$name*/'x'"
	doc, err := Parse(src, "t.sql", Bindings{}, DialectQuestionMark)
	require.NoError(t, err)
	assert.NotContains(t, doc.SQL, "name")
	assert.Empty(t, doc.Args)

	doc, err = Parse(src, "t.sql", Bindings{"name": Scalar("bob")}, DialectQuestionMark)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, "name = ?")
	assert.Equal(t, []any{"bob"}, doc.Args)
}

func TestParseRequiredModifierErrorsWhenNegative(t *testing.T) {
	_, err := Parse("select * from t where id = /*@id*/1", "t.sql", Bindings{}, DialectQuestionMark)
	require.Error(t, err)
	pe, ok := err.(ParseError)
	require.True(t, ok)
	assert.Equal(t, Required, pe.Kind)
}

func TestParseLiteralEmbedModifier(t *testing.T) {
	doc, err := Parse("select * from /*&table*/t", "t.sql", Bindings{"table": Scalar("orders")}, DialectQuestionMark)
	require.NoError(t, err)
	assert.Equal(t, "select * from orders", doc.SQL)
	assert.Empty(t, doc.Args)
}

func TestParseNegateModifier(t *testing.T) {
	src := "select * from t\nwhere active = /*!$archived*/1"
	doc, err := Parse(src, "t.sql", Bindings{"archived": Bool(true)}, DialectQuestionMark)
	require.NoError(t, err)
	assert.NotContains(t, doc.SQL, "active")

	doc, err = Parse(src, "t.sql", Bindings{"archived": Bool(false)}, DialectQuestionMark)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, "active = ?")
}

func TestParseFallbackChain(t *testing.T) {
	doc, err := Parse(
		"select * from t where id = /*?id legacy_id*/1",
		"t.sql", Bindings{"legacy_id": Scalar(9)}, DialectQuestionMark,
	)
	require.NoError(t, err)
	assert.Equal(t, []any{9}, doc.Args)
}

func TestParseEqualBecomesInForList(t *testing.T) {
	doc, err := Parse(
		"select * from t where id = /*ids*/1",
		"t.sql", Bindings{"ids": List(Scalar(1), Scalar(2), Scalar(3))}, DialectQuestionMark,
	)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, "id IN (?, ?, ?)")
	assert.Equal(t, []any{1, 2, 3}, doc.Args)
}

func TestParseNotEqualBecomesNotInForList(t *testing.T) {
	doc, err := Parse(
		"select * from t where id <> /*ids*/1",
		"t.sql", Bindings{"ids": List(Scalar(1), Scalar(2))}, DialectQuestionMark,
	)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, "id NOT IN (?, ?)")
}

func TestParseEmptyListUnderEquals(t *testing.T) {
	doc, err := Parse(
		"select * from t where id = /*ids*/1",
		"t.sql", Bindings{"ids": List()}, DialectQuestionMark,
	)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, "id IS NULL")
	assert.Empty(t, doc.Args)
}

func TestParseBlockIfDirective(t *testing.T) {
	src := "select *\nfrom t\n-- %IF active\nwhere active = 1\n-- %ELSE\nwhere active = 0\n-- %END"
	doc, err := Parse(src, "t.sql", Bindings{"active": Bool(true)}, DialectQuestionMark)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, "where active = 1")
	assert.NotContains(t, doc.SQL, "where active = 0")

	doc, err = Parse(src, "t.sql", Bindings{"active": Bool(false)}, DialectQuestionMark)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, "where active = 0")
}

func TestParseBlockIfElseifElse(t *testing.T) {
	src := "select *\n-- %IF a\nfrom ta\n-- %ELSEIF b\nfrom tb\n-- %ELSE\nfrom tc\n-- %END"
	doc, err := Parse(src, "t.sql", Bindings{"b": Bool(true)}, DialectQuestionMark)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, "from tb")
	assert.NotContains(t, doc.SQL, "from ta")
	assert.NotContains(t, doc.SQL, "from tc")
}

func TestParseInlineIfDirective(t *testing.T) {
	src := "select id /* %if verbose */, extra_col/* %end */ from t"
	doc, err := Parse(src, "t.sql", Bindings{"verbose": Bool(true)}, DialectQuestionMark)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, ", extra_col")

	doc, err = Parse(src, "t.sql", Bindings{"verbose": Bool(false)}, DialectQuestionMark)
	require.NoError(t, err)
	assert.NotContains(t, doc.SQL, "extra_col")
}

func TestParseInlineIfElse(t *testing.T) {
	src := "select /* %if desc */ DESC /* %else */ ASC /* %end */ from t"
	doc, err := Parse(src, "t.sql", Bindings{"desc": Bool(false)}, DialectQuestionMark)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, "ASC")
	assert.NotContains(t, doc.SQL, "DESC")
}

func TestParseConcatAux(t *testing.T) {
	doc, err := Parse(
		"select\n/*%concat a b*/\nfrom t",
		"t.sql", Bindings{"a": Scalar("col_a"), "b": Scalar("col_b")}, DialectQuestionMark,
	)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, "col_a, col_b")
}

func TestParseLikeAux(t *testing.T) {
	doc, err := Parse(
		"select * from t where name like /*%L pattern*/",
		"t.sql", Bindings{"pattern": Scalar("50%_off")}, DialectQuestionMark,
	)
	require.NoError(t, err)
	assert.Equal(t, []any{`50#%#_off`}, doc.Args)
	assert.Contains(t, doc.SQL, "ESCAPE '#'")
}

func TestParseLikeAuxWithLiteralSegments(t *testing.T) {
	doc, err := Parse(
		"select * from t where name like /*%L '%' k '%' */'%x%'",
		"t.sql", Bindings{"k": Scalar("10%病気")}, DialectQuestionMark,
	)
	require.NoError(t, err)
	assert.Equal(t, []any{"%10#%病気%"}, doc.Args)
	assert.Contains(t, doc.SQL, "ESCAPE '#'")
}

func TestParseStrAux(t *testing.T) {
	doc, err := Parse(
		"select /*%STR(label)*/\nfrom t",
		"t.sql", Bindings{"label": Scalar("hi")}, DialectQuestionMark,
	)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, "hi")
	assert.Empty(t, doc.Args)
}

func TestParseSqlAux(t *testing.T) {
	doc, err := Parse(
		"select * from t\norder by /*%SQL(col)*/",
		"t.sql", Bindings{"col": Scalar("created_at desc")}, DialectQuestionMark,
	)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, "order by created_at desc")
}

func TestParseRemovalPropagationDropsWhereClause(t *testing.T) {
	src := "select * from t\nwhere\n  id = /*$id*/1"
	doc, err := Parse(src, "t.sql", Bindings{}, DialectQuestionMark)
	require.NoError(t, err)
	assert.NotContains(t, doc.SQL, "where")
}

func TestParseCTEHeaderSurvivesEmptyBody(t *testing.T) {
	src := "with recent as (\nselect 1\n)\nselect * from recent"
	doc, err := Parse(src, "t.sql", Bindings{}, DialectQuestionMark)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, "recent as (")
}

func TestParseDialectPlaceholders(t *testing.T) {
	src := "select * from t\nwhere id = /*id*/1\nlimit /*limit*/1"
	b := Bindings{"id": Scalar(1), "limit": Scalar(10)}

	sqliteDoc, err := Parse(src, "t.sql", b, Dialect{Placeholder: QuestionMark})
	require.NoError(t, err)
	assert.Equal(t, "select * from t\nwhere id = ?\nlimit ?", sqliteDoc.SQL)

	pgDoc, err := Parse(src, "t.sql", b, Dialect{Placeholder: PercentS})
	require.NoError(t, err)
	assert.Equal(t, "select * from t\nwhere id = %s\nlimit %s", pgDoc.SQL)

	oraDoc, err := Parse(src, "t.sql", b, Dialect{Placeholder: NamedColon})
	require.NoError(t, err)
	assert.Equal(t, "select * from t\nwhere id = :id_0\nlimit :limit_0", oraDoc.SQL)
	assert.Equal(t, map[string]any{"id_0": 1, "limit_0": 10}, oraDoc.NamedParams)
}

func TestParseOracleInListSplitsAtLimit(t *testing.T) {
	items := make([]Value, 5)
	for i := range items {
		items[i] = Scalar(i)
	}
	doc, err := Parse(
		"select * from t where id = /*ids*/1",
		"t.sql", Bindings{"ids": List(items...)}, Dialect{Placeholder: NamedColon, InListLimit: 2},
	)
	require.NoError(t, err)
	assert.Contains(t, doc.SQL, "OR")
	assert.Len(t, doc.Args, 5)
}

func TestParseUnterminatedCommentIsReported(t *testing.T) {
	_, err := Parse("select 1 /* oops", "t.sql", Bindings{}, DialectQuestionMark)
	require.Error(t, err)
	pe, ok := err.(ParseError)
	require.True(t, ok)
	assert.Equal(t, Unterminated, pe.Kind)
}

func TestParseIllegalModifierCombination(t *testing.T) {
	_, err := Parse("select /*$$x*/1 from t", "t.sql", Bindings{}, DialectQuestionMark)
	require.Error(t, err)
	pe, ok := err.(ParseError)
	require.True(t, ok)
	assert.Equal(t, Modifier, pe.Kind)
}
