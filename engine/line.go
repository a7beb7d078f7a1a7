package engine

import (
	"regexp"
	"strings"
)

// LogicalLine is the unit the tree builder and removal propagator operate
// on (spec §3): either a single physical source line, or several physical
// lines glued together by the continuation rules below.
type LogicalLine struct {
	Pos    Pos
	Raw    string
	Indent int

	Sites []*ParamSite

	Parent   *LogicalLine
	Children []*LogicalLine

	// Removed is set by the removal propagator (propagate.go) once every
	// ParamSite on the line (and, transitively, every child) has gone
	// negative.
	Removed bool

	// CTEHeader marks a line exempted from removal propagation because it
	// introduces a WITH clause's common-table-expression name (spec §4.7,
	// Open Question (a)).
	CTEHeader bool
}

type physicalLine struct {
	tokens []Token
	pos    Pos
	indent int
	raw    string
}

// assembleLines groups a token stream into physical lines and glues
// continuation lines onto their predecessor (spec §4.2). ParamSites are
// deliberately not parsed here: the directive processor (directive.go)
// still needs to rewrite each line's raw text, and doing that after sites
// were parsed would leave every subsequent site's byte offsets on that
// line stale. ParseSites (below) runs once directive resolution is done.
func assembleLines(tokens []Token, file FileRef) []*LogicalLine {
	physical := splitPhysicalLines(tokens)

	var lines []*LogicalLine
	for _, p := range physical {
		if strings.TrimSpace(p.raw) == "" {
			// Blank source lines never carry parameters; keep them as
			// their own LogicalLine so rewrite.go can collapse runs of
			// them after removal.
			lines = append(lines, &LogicalLine{Pos: p.pos, Raw: p.raw, Indent: p.indent})
			continue
		}
		if isContinuationLine(p.raw) && len(lines) > 0 {
			prev := lines[len(lines)-1]
			prev.Raw = prev.Raw + "\n" + p.raw
			continue
		}
		lines = append(lines, &LogicalLine{Pos: p.pos, Raw: p.raw, Indent: p.indent})
	}
	return lines
}

// ParseSites re-tokenizes every line's final Raw text (after directive
// resolution has settled which branches survive) and converts each
// ParameterCommentToken it finds into a ParamSite (spec §4.3).
func ParseSites(root *LogicalLine, file FileRef, dia Dialect) error {
	var outer error
	walk(root, func(l *LogicalLine) {
		if outer != nil || l == root || strings.TrimSpace(l.Raw) == "" {
			return
		}
		tokens, err := NewScanner(l.Raw, file, dia).Tokenize()
		if err != nil {
			outer = err
			return
		}
		sites, err := parseLineSites(tokens, 0)
		if err != nil {
			outer = err
			return
		}
		for _, s := range sites {
			s.Line = l
		}
		l.Sites = sites
	})
	return outer
}

func splitPhysicalLines(tokens []Token) []physicalLine {
	var out []physicalLine
	var cur []Token
	var raw strings.Builder

	flush := func() {
		if len(cur) == 0 {
			return
		}
		indent := leadingWhitespaceWidth(raw.String())
		out = append(out, physicalLine{tokens: cur, pos: cur[0].Start, indent: indent, raw: raw.String()})
		cur = nil
		raw.Reset()
	}

	for _, t := range tokens {
		if t.Type == NewlineToken {
			flush()
			continue
		}
		if t.Type == EOFToken {
			continue
		}
		cur = append(cur, t)
		raw.WriteString(t.Raw)
	}
	flush()
	return out
}

func leadingWhitespaceWidth(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\t' {
			break
		}
		n++
	}
	return n
}

// continuationKeywords glue a physical line onto the one above it instead
// of starting a new LogicalLine; this keeps a trailing "AND x = 1" or a
// leading "," on its own source line from being treated as an independent,
// independently-removable unit (spec §4.2).
var continuationKeywords = []string{"and", "or", "union"}

func isContinuationLine(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}
	if trimmed[0] == ',' {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, kw := range continuationKeywords {
		if lower == kw || strings.HasPrefix(lower, kw+" ") || strings.HasPrefix(lower, kw+"\n") {
			return true
		}
	}
	return false
}

// parseLineSites walks a physical line's tokens, converting every
// ParameterCommentToken into a ParamSite. offset shifts ByteStart/ByteEnd
// for lines being glued onto an already-assembled prefix.
func parseLineSites(tokens []Token, offset int) ([]*ParamSite, error) {
	var sites []*ParamSite
	pos := offset
	for i, t := range tokens {
		start := pos
		pos += len(t.Raw)
		if t.Type != ParameterCommentToken {
			continue
		}
		parsed, err := parseParamComment(TrimmedInterior(t.Raw))
		if err != nil {
			if pe, ok := err.(ParseError); ok {
				pe.Pos = t.Start
				return nil, pe
			}
			return nil, err
		}
		defaultText, forwardCtx := captureDefault(tokens, i+1)
		site := &ParamSite{
			ByteStart:      start,
			ByteEnd:        pos,
			Kind:           parsed.kind,
			Aux:            parsed.aux,
			Modifier:       parsed.modifier,
			Names:          parsed.names,
			AuxArgs:        parsed.auxArgs,
			DefaultText:    defaultText,
			ForwardContext: forwardCtx,
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// forwardOperatorPattern recognizes a comparison operator opening the text
// that immediately follows a parameter comment, e.g. the "= 100" in
// "FIELD1 /* p */= 100" (spec §4.5 step 4's site-before-operator case).
var forwardOperatorPattern = regexp.MustCompile(`(?i)^(\s*)(!=|<>|=|not\s+like|like)\s*`)

// captureDefault returns the literal default-value text that follows a
// parameter comment (used when the template is executed unprocessed, spec
// §1) and, when that text opens with a comparison operator, the operator
// context for the evaluator's context-sensitive rewrite (spec §4.5 step 4).
// It captures only the single literal token belonging to this site, never
// reaching into a sibling site's connective or column text.
func captureDefault(tokens []Token, from int) (string, OperatorContext) {
	if from >= len(tokens) {
		return "", OpNone
	}
	t := tokens[from]
	if t.Type == StringLiteralToken {
		return t.Raw, OpNone
	}
	if t.Type != TextToken {
		return "", OpNone
	}
	if loc := forwardOperatorPattern.FindStringSubmatchIndex(t.Raw); loc != nil {
		ctx := operatorContextFor(t.Raw[loc[4]:loc[5]])
		rest := t.Raw[loc[1]:]
		_, consumed := leadingDefaultRun(rest)
		if consumed == 0 && from+1 < len(tokens) && tokens[from+1].Type == StringLiteralToken {
			return t.Raw[:loc[1]] + tokens[from+1].Raw, ctx
		}
		return t.Raw[:loc[1]+consumed], ctx
	}
	_, consumed := leadingDefaultRun(t.Raw)
	return t.Raw[:consumed], OpNone
}

func operatorContextFor(op string) OperatorContext {
	norm := strings.Join(strings.Fields(strings.ToLower(op)), " ")
	switch norm {
	case "!=", "<>":
		return OpNotEqual
	case "=":
		return OpEqual
	case "like":
		return OpLike
	case "not like":
		return OpNotLike
	}
	return OpNone
}

// leadingDefaultRun returns the literal default-value text at the start of
// raw, skipping leading spaces/tabs: a balanced parenthesized group (for an
// IN-list default like "(1,2,3)"), or a bareword/number run up to the next
// whitespace, comma, or parenthesis. It also reports how many bytes of raw
// (including the leading whitespace skipped) that text occupies.
func leadingDefaultRun(raw string) (string, int) {
	i := 0
	for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t') {
		i++
	}
	if i >= len(raw) {
		return "", 0
	}
	if raw[i] == '(' {
		depth := 0
		for j := i; j < len(raw); j++ {
			switch raw[j] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return raw[i : j+1], j + 1
				}
			}
		}
		return raw[i:], len(raw)
	}
	j := i
loop:
	for j < len(raw) {
		switch raw[j] {
		case ' ', '\t', ',', ')', '(':
			break loop
		}
		j++
	}
	return raw[i:j], j
}
