// Package dialect carries the per-RDBMS knobs the engine needs to bind a
// parsed template to a concrete driver: placeholder syntax, IN-list
// splitting, and LIKE-pattern escaping (spec §3, §4.8).
package dialect

import "github.com/twowaysql/twowaysql/engine"

// SQLite targets database/sql's sqlite driver family (modernc.org/sqlite
// in this module), which accepts '?' placeholders and has no practical
// IN-list ceiling.
var SQLite = engine.Dialect{
	ID:               "sqlite",
	Placeholder:      engine.QuestionMark,
	LikeEscapeSet:    "%_",
	BackslashEscapes: false,
}

// PostgreSQL targets jackc/pgx/v5. pgx itself expects "$1"-numbered
// placeholders, but the engine's own sentinel projection emits "%s" here
// and leaves final renumbering to Render (renumberPostgreSQLPlaceholders
// in twowaysql/render.go),
// matching spec §4.8's dialect table.
var PostgreSQL = engine.Dialect{
	ID:               "postgresql",
	Placeholder:      engine.PercentS,
	LikeEscapeSet:    "%_",
	BackslashEscapes: false,
}

// MySQL targets go-sql-driver/mysql, which accepts '?' placeholders.
var MySQL = engine.Dialect{
	ID:               "mysql",
	Placeholder:      engine.QuestionMark,
	LikeEscapeSet:    "%_",
	BackslashEscapes: true,
}

// Oracle targets sijms/go-ora/v2, which expects named ":NAME_INDEX"
// placeholders (each bound parameter's own name, not a global counter) and,
// per spec §4.8, caps a single IN (...) list at 1000 elements.
var Oracle = engine.Dialect{
	ID:               "oracle",
	Placeholder:      engine.NamedColon,
	InListLimit:      1000,
	LikeEscapeSet:    "%_",
	BackslashEscapes: false,
}

var byID = map[string]engine.Dialect{
	SQLite.ID:     SQLite,
	PostgreSQL.ID: PostgreSQL,
	MySQL.ID:      MySQL,
	Oracle.ID:     Oracle,
}

// Lookup resolves a dialect by its stable identifier, such as the value
// of the CLI's --dialect flag. No template loader uses it to pick a
// dialect-suffixed file.
func Lookup(id string) (engine.Dialect, bool) {
	d, ok := byID[id]
	return d, ok
}
