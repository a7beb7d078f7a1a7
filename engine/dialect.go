package engine

// PlaceholderStyle selects how the dialect binder renders a bound
// parameter sentinel into the final SQL text (spec §4.8).
type PlaceholderStyle int

const (
	// QuestionMark renders every sentinel as '?' (sqlite, mysql).
	QuestionMark PlaceholderStyle = iota
	// PercentS renders every sentinel as '%s' (postgresql, via pgx's
	// text-protocol rewrite of $-numbered params is handled by the
	// driver; the engine's own sentinel projection only needs a stable
	// textual form, per spec §4.8's literal table).
	PercentS
	// NamedColon renders each sentinel as ':NAME_INDEX' (oracle).
	NamedColon
)

// Dialect is the value object from spec §3 describing the RDBMS-specific
// knobs that influence placeholder syntax, IN-list split threshold, LIKE
// escape set, and string-literal escape rules. It carries no behavior of
// its own beyond what the binder and scanner read from it, so that
// different RDBMS targets live in the sibling `dialect` package as plain
// data (see dialect/dialect.go).
type Dialect struct {
	ID string // stable identifier, e.g. "sqlite"

	Placeholder PlaceholderStyle

	// InListLimit is the maximum number of placeholders the dialect
	// tolerates in a single IN (...) clause before the binder must split
	// it into an OR'd sequence of smaller IN clauses (spec §4.8). Zero
	// means unlimited.
	InListLimit int

	// LikeEscapeSet lists the characters %L must escape before binding a
	// LIKE pattern (spec §4.5).
	LikeEscapeSet string

	// BackslashEscapes is true when the dialect treats a backslash
	// inside a string literal as an escape character (spec §4.1).
	BackslashEscapes bool
}

// DialectQuestionMark is the default dialect per spec §6.
var DialectQuestionMark = Dialect{
	ID:          "?",
	Placeholder: QuestionMark,
}
