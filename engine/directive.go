package engine

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	blockIfPattern     = regexp.MustCompile(`(?i)^\s*--\s*%IF\s+(.+?)\s*$`)
	blockElseifPattern = regexp.MustCompile(`(?i)^\s*--\s*%ELSEIF\s+(.+?)\s*$`)
	blockElsePattern   = regexp.MustCompile(`(?i)^\s*--\s*%ELSE\s*$`)
	blockEndPattern    = regexp.MustCompile(`(?i)^\s*--\s*%END\s*$`)

	inlineDirectivePattern = regexp.MustCompile(`(?i)/\*\s*%(if|elseif|else|end)\b\s*(.*?)\*/`)
)

// ResolveDirectives is the directive-processor stage (spec §4.6): it
// settles every %if/%elseif/%else/%end conditional, both the block form
// (a run of whole "-- %IF ..." sibling lines) and the inline form (a
// "/* %if ... */" comment embedded in running SQL text), against b,
// before any ParamSite is parsed from the surviving text.
func ResolveDirectives(root *LogicalLine, b Bindings) error {
	if err := resolveBlockDirectives(root, b); err != nil {
		return err
	}
	var outer error
	walk(root, func(l *LogicalLine) {
		if outer != nil || l == root {
			return
		}
		rewritten, err := resolveInlineDirectives(l.Raw, b)
		if err != nil {
			outer = err
			return
		}
		l.Raw = rewritten
	})
	return outer
}

// resolveBlockDirectives recursively scans each node's Children for a run
// of "-- %IF" / "-- %ELSEIF" / "-- %ELSE" / "-- %END" marker siblings,
// evaluates the conditions in order, and replaces the whole run with the
// first taken branch's own children (dropping the markers and the other
// branches entirely).
func resolveBlockDirectives(l *LogicalLine, b Bindings) error {
	var rebuilt []*LogicalLine
	i := 0
	for i < len(l.Children) {
		c := l.Children[i]
		m := blockIfPattern.FindStringSubmatch(c.Raw)
		if m == nil {
			if err := resolveBlockDirectives(c, b); err != nil {
				return err
			}
			rebuilt = append(rebuilt, c)
			i++
			continue
		}

		type branch struct {
			cond string
			body []*LogicalLine
		}
		var branches []branch
		branches = append(branches, branch{cond: m[1]})
		i++
		for i < len(l.Children) {
			next := l.Children[i]
			switch {
			case blockElseifPattern.MatchString(next.Raw):
				em := blockElseifPattern.FindStringSubmatch(next.Raw)
				branches = append(branches, branch{cond: em[1]})
				i++
			case blockElsePattern.MatchString(next.Raw):
				branches = append(branches, branch{cond: ""})
				i++
			case blockEndPattern.MatchString(next.Raw):
				i++
				goto doneBranches
			default:
				last := len(branches) - 1
				branches[last].body = append(branches[last].body, next)
				i++
			}
		}
	doneBranches:
		for _, br := range branches {
			taken := br.cond == "" // bare %ELSE branch
			if !taken {
				v, err := evalCondition(br.cond, b)
				if err != nil {
					return err
				}
				taken = v
			}
			if taken {
				for _, bodyLine := range br.body {
					if err := resolveBlockDirectives(bodyLine, b); err != nil {
						return err
					}
					bodyLine.Parent = l
					rebuilt = append(rebuilt, bodyLine)
				}
				break
			}
		}
	}
	l.Children = rebuilt
	return nil
}

// resolveInlineDirectives rewrites a single line's raw text, resolving any
// "/* %if cond */ ... /* %elseif cond */ ... /* %else */ ... /* %end */"
// run it contains into the text of whichever branch's condition is true
// first (spec §4.6). Nested inline conditionals on the same line are not
// supported; a %if's body runs to the next %elseif/%else/%end at the
// outermost level only.
func resolveInlineDirectives(raw string, b Bindings) (string, error) {
	for {
		loc := inlineDirectivePattern.FindStringSubmatchIndex(raw)
		if loc == nil {
			return raw, nil
		}
		kind := raw[loc[2]:loc[3]]
		if !strings.EqualFold(kind, "if") {
			// An %elseif/%else/%end with no preceding %if on this line:
			// drop the marker itself and keep scanning.
			raw = raw[:loc[0]] + raw[loc[1]:]
			continue
		}

		ifStart := loc[0]
		cond := raw[loc[4]:loc[5]]

		rest := raw[loc[1]:]
		branches, tail, err := splitInlineBranches(rest, cond)
		if err != nil {
			return "", err
		}

		chosen := ""
		for _, br := range branches {
			taken := br.cond == ""
			if !taken {
				v, err := evalCondition(br.cond, b)
				if err != nil {
					return "", err
				}
				taken = v
			}
			if taken {
				chosen = br.text
				break
			}
		}
		raw = raw[:ifStart] + chosen + tail
	}
}

type inlineBranch struct {
	cond string
	text string
}

// splitInlineBranches walks rest (the text immediately after a %if's own
// "*/") looking for the matching %elseif/%else/%end markers at the
// outermost level, returning each branch's condition and body text plus
// whatever text follows the %end marker.
func splitInlineBranches(rest, firstCond string) ([]inlineBranch, string, error) {
	var branches []inlineBranch
	cond := firstCond
	bodyStart := 0
	for {
		loc := inlineDirectivePattern.FindStringSubmatchIndex(rest[bodyStart:])
		if loc == nil {
			return nil, "", ParseError{Kind: Directive, Message: "unterminated %if"}
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += bodyStart
			}
		}
		kind := rest[loc[2]:loc[3]]
		body := rest[bodyStart:loc[0]]
		branches = append(branches, inlineBranch{cond: cond, text: body})

		switch strings.ToLower(kind) {
		case "elseif":
			cond = rest[loc[4]:loc[5]]
			bodyStart = loc[1]
		case "else":
			cond = ""
			bodyStart = loc[1]
		case "end":
			return branches, rest[loc[1]:], nil
		case "if":
			return nil, "", ParseError{Kind: Directive, Message: "nested inline %if is not supported"}
		}
	}
}

var (
	condNotEqual = regexp.MustCompile(`^(.+?)\s*!=\s*(.+)$`)
	condEqual    = regexp.MustCompile(`^(.+?)\s*==\s*(.+)$`)
)

// evalCondition implements the small boolean-expression language a %if
// condition may use: a bare name's polarity, a negated name ("!name"),
// or a string equality/inequality test against a quoted literal.
func evalCondition(cond string, b Bindings) (bool, error) {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return false, ParseError{Kind: Directive, Message: "empty %if condition"}
	}
	if m := condEqual.FindStringSubmatch(cond); m != nil {
		return conditionScalar(m[1], b) == unquote(strings.TrimSpace(m[2])), nil
	}
	if m := condNotEqual.FindStringSubmatch(cond); m != nil {
		return conditionScalar(m[1], b) != unquote(strings.TrimSpace(m[2])), nil
	}
	if strings.HasPrefix(cond, "!") {
		v := b.Lookup(strings.TrimSpace(cond[1:]))
		return v.Negative(), nil
	}
	if strings.HasPrefix(strings.ToLower(cond), "not ") {
		v := b.Lookup(strings.TrimSpace(cond[4:]))
		return v.Negative(), nil
	}
	return b.Lookup(cond).Positive(), nil
}

func conditionScalar(name string, b Bindings) string {
	v := b.Lookup(strings.TrimSpace(name))
	if v.Kind == KindBool {
		return strconv.FormatBool(v.Bool)
	}
	if v.Scalar == nil {
		return ""
	}
	if s, ok := v.Scalar.(string); ok {
		return s
	}
	return strconv.Quote("")
}

func unquote(s string) string {
	return strings.Trim(s, `'"`)
}
