package twowaysql

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twowaysql/twowaysql/dialect"
	"github.com/twowaysql/twowaysql/engine"
)

func openWidgetsDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.ExecContext(context.Background(), `create table widgets (id integer, name text)`)
	require.NoError(t, err)
	return db
}

func TestDriverNameMapsKnownDialects(t *testing.T) {
	name, ok := DriverName("sqlite")
	assert.True(t, ok)
	assert.Equal(t, "sqlite", name)

	name, ok = DriverName("postgresql")
	assert.True(t, ok)
	assert.Equal(t, "pgx", name)

	_, ok = DriverName("tsql")
	assert.False(t, ok)
}

func TestOpenUnknownDialectErrors(t *testing.T) {
	_, err := Open("tsql", "whatever")
	require.Error(t, err)
}

func TestExecAndQueryRoundTrip(t *testing.T) {
	db := openWidgetsDB(t)
	loader := FSLoader{FS: fstest.MapFS{
		"insert.sql": &fstest.MapFile{Data: []byte("insert into widgets (id, name) values (1, /*name*/'gear'\n)")},
		"select.sql": &fstest.MapFile{Data: []byte("select id, name from widgets where id = /*id*/1")},
	}}

	_, err := Exec(context.Background(), db, loader, nil, "insert.sql",
		Bindings{"name": engine.Scalar("gear")}, dialect.SQLite)
	require.NoError(t, err)

	rows, err := Query(context.Background(), db, loader, nil, "select.sql",
		Bindings{"id": engine.Scalar(1)}, dialect.SQLite)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "gear", rows[0]["name"])
}

type widgetRow struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

func TestQueryIntoScansStructSlice(t *testing.T) {
	db := openWidgetsDB(t)
	_, err := db.Exec(`insert into widgets (id, name) values (1, 'gear'), (2, 'bolt')`)
	require.NoError(t, err)

	loader := FSLoader{FS: fstest.MapFS{
		"select.sql": &fstest.MapFile{Data: []byte("select id, name from widgets order by id")},
	}}

	var out []widgetRow
	err = QueryInto(context.Background(), db, loader, nil, "select.sql", Bindings{}, dialect.SQLite, &out)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "bolt", out[1].Name)
}
