package twowaysql

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twowaysql/twowaysql/dialect"
	"github.com/twowaysql/twowaysql/engine"
)

func TestRenderRunsFullPipeline(t *testing.T) {
	fsys := fstest.MapFS{
		"q.sql": &fstest.MapFile{Data: []byte("select * from t where id = /*id*/1")},
	}
	loader := FSLoader{FS: fsys}
	doc, err := Render(loader, nil, "q.sql", Bindings{"id": engine.Scalar(3)}, dialect.SQLite)
	require.NoError(t, err)
	assert.Equal(t, "select * from t where id = ?", doc.SQL)
	assert.Equal(t, []any{3}, doc.Args)
}

func TestRenderUsesCacheWhenProvided(t *testing.T) {
	fsys := fstest.MapFS{
		"q.sql": &fstest.MapFile{Data: []byte("select /*id*/1")},
	}
	loader := FSLoader{FS: fsys}
	cache := &TemplateCache{}

	_, err := Render(loader, cache, "q.sql", Bindings{"id": engine.Scalar(1)}, dialect.SQLite)
	require.NoError(t, err)

	fsys["q.sql"] = &fstest.MapFile{Data: []byte("select /*other*/2")}
	doc, err := Render(loader, cache, "q.sql", Bindings{"id": engine.Scalar(9)}, dialect.SQLite)
	require.NoError(t, err)
	assert.Equal(t, "select ?", doc.SQL)
	assert.Equal(t, []any{9}, doc.Args)
}

func TestRenderRenumbersPostgreSQLPlaceholders(t *testing.T) {
	fsys := fstest.MapFS{
		"q.sql": &fstest.MapFile{Data: []byte("select * from t\nwhere id = /*id*/1\nlimit /*limit*/1")},
	}
	loader := FSLoader{FS: fsys}
	doc, err := Render(loader, nil, "q.sql", Bindings{"id": engine.Scalar(1), "limit": engine.Scalar(10)}, dialect.PostgreSQL)
	require.NoError(t, err)
	assert.Equal(t, "select * from t\nwhere id = $1\nlimit $2", doc.SQL)
}

func TestRenderPropagatesLoaderError(t *testing.T) {
	loader := FSLoader{FS: fstest.MapFS{}}
	_, err := Render(loader, nil, "missing.sql", Bindings{}, dialect.SQLite)
	require.Error(t, err)
}

func TestRenderStringSkipsLoader(t *testing.T) {
	doc, err := RenderString("select /*id*/1", Bindings{"id": engine.Scalar(4)}, dialect.SQLite)
	require.NoError(t, err)
	assert.Equal(t, "select ?", doc.SQL)
	assert.Equal(t, []any{4}, doc.Args)
}

func TestRenderStringPropagatesParseError(t *testing.T) {
	_, err := RenderString("select /*@id*/1", Bindings{}, dialect.SQLite)
	require.Error(t, err)
}
