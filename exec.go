package twowaysql

import (
	"context"
	"database/sql"

	"github.com/twowaysql/twowaysql/engine"
	"github.com/twowaysql/twowaysql/rowmapper"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/sijms/go-ora/v2"
	_ "modernc.org/sqlite"
)

// DriverName maps a dialect ID to the database/sql driver name registered
// by this package's blank imports (spec §10 DOMAIN STACK).
func DriverName(dialectID string) (string, bool) {
	switch dialectID {
	case "sqlite":
		return "sqlite", true
	case "postgresql":
		return "pgx", true
	case "mysql":
		return "mysql", true
	case "oracle":
		return "oracle", true
	default:
		return "", false
	}
}

// Open is a thin convenience wrapper over sql.Open using DriverName, so
// callers only need to name a dialect rather than remember each driver's
// registered string.
func Open(dialectID, dsn string) (*sql.DB, error) {
	name, ok := DriverName(dialectID)
	if !ok {
		return nil, engine.ParseError{Kind: engine.DialectError, Name: dialectID, Message: "no registered driver for dialect"}
	}
	return sql.Open(name, dsn)
}

// Exec renders ref against bindings and dia, then runs it through db.
func Exec(ctx context.Context, db DB, loader Loader, cache *TemplateCache, ref engine.FileRef, bindings Bindings, dia Dialect) (sql.Result, error) {
	doc, err := Render(loader, cache, ref, bindings, dia)
	if err != nil {
		return nil, err
	}
	return db.ExecContext(ctx, doc.SQL, doc.Args...)
}

// Query renders ref against bindings and dia, runs it through db, and
// maps every result row into a rowmapper.MapRow.
func Query(ctx context.Context, db DB, loader Loader, cache *TemplateCache, ref engine.FileRef, bindings Bindings, dia Dialect) ([]rowmapper.MapRow, error) {
	doc, err := Render(loader, cache, ref, bindings, dia)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, doc.SQL, doc.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rowmapper.ScanRows(rows)
}

// QueryInto renders ref against bindings and dia, runs it through db, and
// scans every result row into dest (a pointer to a slice of struct).
func QueryInto(ctx context.Context, db DB, loader Loader, cache *TemplateCache, ref engine.FileRef, bindings Bindings, dia Dialect, dest interface{}) error {
	doc, err := Render(loader, cache, ref, bindings, dia)
	if err != nil {
		return err
	}
	rows, err := db.QueryContext(ctx, doc.SQL, doc.Args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	return rowmapper.ScanStruct(rows, dest)
}
