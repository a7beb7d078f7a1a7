package engine

import "strings"

// Modifier is a bitmask over the parameter-comment sigils (spec §9 Design
// Notes: "a small bitmask suffices").
type Modifier uint8

const (
	ModDollar Modifier = 1 << iota
	ModAmp
	ModAt
	ModQuestion
	ModNegate
)

func (m Modifier) has(bit Modifier) bool { return m&bit != 0 }

// primaryCount returns how many of $, &, @, ? are set; spec §4.5 step 1
// only allows at most one of these per site.
func (m Modifier) primaryCount() int {
	n := 0
	for _, bit := range []Modifier{ModDollar, ModAmp, ModAt, ModQuestion} {
		if m.has(bit) {
			n++
		}
	}
	return n
}

// SiteKind classifies a ParamSite (spec §3).
type SiteKind int

const (
	SiteBind SiteKind = iota
	SiteLiteralEmbed
	SiteAuxCall
	SiteDirectiveCond
)

// OperatorContext captures the SQL token immediately adjacent to a
// ParamSite, used by the evaluator's context-sensitive expansion
// (spec §4.5).
type OperatorContext int

const (
	OpNone OperatorContext = iota
	OpEqual
	OpNotEqual
	OpIs
	OpIsNot
	OpIn
	OpNotIn
	OpLike
	OpNotLike
)

// AuxKind names which auxiliary function a SiteAuxCall/SiteLiteralEmbed
// site invokes.
type AuxKind int

const (
	AuxNone AuxKind = iota
	AuxConcat
	AuxLike
	AuxStr
	AuxSql
	AuxInclude
)

// ParamSite is a single parameter or auxiliary-function occurrence inside
// a LogicalLine (spec §3).
type ParamSite struct {
	Line *LogicalLine

	// ByteStart/ByteEnd locate the owning comment token within Line.Raw.
	ByteStart, ByteEnd int

	Kind     SiteKind
	Aux      AuxKind
	Modifier Modifier

	// Names holds the resolved name (len 1) or, for a `?` fallback
	// chain, the ordered candidate list.
	Names []string

	// DefaultText is the literal text that followed the comment in the
	// raw template, used when the template is executed unprocessed.
	DefaultText string

	// AuxArgs is the raw, unparsed argument text for auxiliary calls
	// (%concat(...), %C ..., %L ..., %STR(name), %SQL(name), %include "path").
	AuxArgs string

	Context OperatorContext

	// ForwardContext is the comparison operator detected immediately after
	// the site's default text, e.g. "FIELD1 /* p */= 100" (spec §4.5 step
	// 4's site-before-operator case). It is set once at parse time
	// (line.go's captureDefault) since it depends only on the literal
	// template text, never on a bound value.
	ForwardContext OperatorContext

	// ColumnExpr is the contiguous text identified as the left-hand
	// column expression for context-sensitive rewriting (spec §4.5 step 4).
	ColumnExpr string

	// removed is set by the evaluator (evaluator.go) and consumed by the
	// removal propagator (propagate.go): a site that resolved negative
	// (subject to its modifier's removal semantics) marks its owning
	// line as a removal candidate.
	removed bool

	// backwardConsume is the number of bytes before ByteStart that the
	// evaluator must also erase, set only when an operator word sitting
	// behind the site (e.g. the "=" in "id = /*ids*/1") gets replaced by
	// a different keyword ("IN", "IS NULL", ...).
	backwardConsume int
}

// parsedComment is the result of parsing one parameter-comment token's
// interior text, before it is attached to a line.
type parsedComment struct {
	kind     SiteKind
	aux      AuxKind
	modifier Modifier
	names    []string
	auxArgs  string
}

// parseModifierPrefix consumes the leading sigil run of interior and
// returns the modifier bitmask and the remaining text (starting at the
// name). An illegal combination (more than one primary sigil, or a
// repeated sigil) is reported via ok=false.
func parseModifierPrefix(interior string) (mod Modifier, rest string, ok bool) {
	i := 0
	for i < len(interior) {
		switch interior[i] {
		case '$':
			if mod.has(ModDollar) {
				return 0, "", false
			}
			mod |= ModDollar
		case '&':
			if mod.has(ModAmp) {
				return 0, "", false
			}
			mod |= ModAmp
		case '@':
			if mod.has(ModAt) {
				return 0, "", false
			}
			mod |= ModAt
		case '?':
			if mod.has(ModQuestion) {
				return 0, "", false
			}
			mod |= ModQuestion
		case '!':
			if mod.has(ModNegate) {
				return 0, "", false
			}
			mod |= ModNegate
		default:
			if mod.primaryCount() > 1 {
				return 0, "", false
			}
			return mod, interior[i:], true
		}
		i++
	}
	if mod.primaryCount() > 1 {
		return 0, "", false
	}
	return mod, "", true
}

// parseParamComment parses a parameter-comment's interior text (already
// trimmed of surrounding whitespace and /* */ delimiters) into its
// modifier/name/auxiliary shape. Auxiliary forms (leading '%') bypass the
// sigil-prefix grammar entirely.
func parseParamComment(interior string) (parsedComment, error) {
	trimmed := strings.TrimSpace(interior)
	if strings.HasPrefix(trimmed, "%") {
		return parseAuxComment(trimmed)
	}

	mod, rest, ok := parseModifierPrefix(trimmed)
	if !ok {
		return parsedComment{}, ParseError{Kind: Modifier, Message: "illegal modifier combination: " + trimmed}
	}

	if mod.has(ModQuestion) {
		names := strings.Fields(rest)
		var out []string
		for _, n := range names {
			out = append(out, strings.TrimPrefix(n, "?"))
		}
		if len(out) == 0 {
			return parsedComment{}, ParseError{Kind: Modifier, Message: "?-fallback comment has no names: " + trimmed}
		}
		return parsedComment{kind: SiteBind, modifier: mod, names: out}, nil
	}

	name := strings.TrimSpace(rest)
	if name == "" {
		return parsedComment{}, ParseError{Kind: Modifier, Message: "parameter comment has no name: " + trimmed}
	}
	return parsedComment{kind: SiteBind, modifier: mod, names: []string{name}}, nil
}
