package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// sentinelPrefix marks a placeholder the binder must still resolve into a
// dialect-specific form (spec §4.8). It uses bytes that never occur in
// ordinary SQL text so rewrite.go can locate it with a plain substring
// scan after lines have been dropped and spliced.
const sentinelPrefix = "\x00P"
const sentinelSuffix = "\x00"

func sentinelFor(id int) string {
	return fmt.Sprintf("%s%d%s", sentinelPrefix, id, sentinelSuffix)
}

// BoundValue pairs a sentinel's resolved value with the name of the
// parameter that produced it, so the binder can render Oracle's
// ":NAME_INDEX" placeholders and populate the named-parameter map (spec
// §4.8, §8).
type BoundValue struct {
	Name  string
	Value Value
}

// Evaluator resolves every ParamSite in a document against a set of
// Bindings (spec §4.5). It is document-scoped: each sentinel it mints is
// globally unique so the binder can resolve them after dead lines have
// been spliced out.
type Evaluator struct {
	Bindings Bindings
	Dialect  Dialect

	next   int
	Values map[string]BoundValue // sentinel -> name + bound value

	// Diagnostics records facts about the evaluation a caller should be
	// able to see even though they don't fail it, chiefly every %STR/%SQL
	// splice, since those bypass placeholder binding and paste a bound
	// value straight into the SQL text (spec §4.5, §7).
	Diagnostics []string
}

// NewEvaluator prepares an Evaluator for a single document evaluation.
// %include directives are expanded textually before tokenizing (see
// ExpandIncludes in include.go), so the evaluator never needs a Loader.
func NewEvaluator(b Bindings, dia Dialect) *Evaluator {
	return &Evaluator{Bindings: b, Dialect: dia, Values: map[string]BoundValue{}}
}

// Evaluate walks the tree rooted at root, resolving every ParamSite. It
// mutates each LogicalLine's Raw text in place, replacing parameter
// comments and their default text with either a bound sentinel or an
// inline literal.
func (e *Evaluator) Evaluate(root *LogicalLine) error {
	var err error
	walk(root, func(l *LogicalLine) {
		if err != nil || len(l.Sites) == 0 {
			return
		}
		rebuilt, lineErr := e.evaluateLine(l)
		if lineErr != nil {
			err = lineErr
			return
		}
		l.Raw = rebuilt
	})
	return err
}

// danglingClausePattern matches a connective-plus-comparison fragment
// ("AND b = ", "OR s <> ") sitting immediately before a removed site, so
// that removing the site doesn't leave invalid SQL behind (spec §4.6).
var danglingClausePattern = regexp.MustCompile(`(?i)\s*(?:(?:and|or)\b\s*)?[A-Za-z_][\w.]*\s*(?:>=|<=|<>|!=|=|<|>|not\s+like|like|not\s+in|in|is\s+not|is)\s*$`)

// evaluateLine rewrites a single LogicalLine's Raw text by replacing every
// ParamSite's [ByteStart,ByteEnd) comment span plus its DefaultText with
// the resolved substitution, right to left so earlier offsets stay valid.
func (e *Evaluator) evaluateLine(l *LogicalLine) (string, error) {
	raw := l.Raw
	for i := len(l.Sites) - 1; i >= 0; i-- {
		site := l.Sites[i]
		repl, err := e.resolveSite(l, site)
		if err != nil {
			return "", err
		}
		spanEnd := site.ByteEnd + len(site.DefaultText)
		if spanEnd > len(raw) {
			spanEnd = len(raw)
		}
		if site.ByteStart > len(raw) || spanEnd < site.ByteStart {
			continue
		}

		spanStart := site.ByteStart - site.backwardConsume
		if spanStart < 0 {
			spanStart = 0
		}
		if site.removed {
			if loc := danglingClausePattern.FindStringIndex(raw[:site.ByteStart]); loc != nil {
				spanStart = loc[0]
			}
		}
		raw = raw[:spanStart] + repl + raw[spanEnd:]
	}
	return raw, nil
}

func (e *Evaluator) resolveSite(l *LogicalLine, site *ParamSite) (string, error) {
	switch site.Kind {
	case SiteLiteralEmbed:
		return e.resolveLiteralEmbed(site)
	case SiteAuxCall:
		return e.resolveAuxCall(site)
	case SiteDirectiveCond:
		// Directives are consumed by the directive processor before the
		// evaluator runs; any that remain are dead text with no
		// surrounding conditional, so they simply vanish.
		return "", nil
	}

	value, positive, name := e.resolveValue(site)
	if site.Modifier.has(ModNegate) {
		positive = !positive
	}

	backCtx := detectOperatorContext(l.Raw, site.ByteStart)

	switch {
	case site.Modifier.has(ModAt):
		if !positive {
			return "", ParseError{Kind: Required, Name: strings.Join(site.Names, ","), Message: "required parameter is absent"}
		}
	case site.Modifier.has(ModDollar), site.Modifier.has(ModAmp), site.Modifier.has(ModQuestion):
		// An explicit IN/NOT IN context (spec §4.5 step 5) never removes
		// the line on a negative value: an empty list still belongs in
		// its IN (...) clause, just with no elements (bindList handles
		// that below).
		if !positive && backCtx != OpIn && backCtx != OpNotIn {
			site.removed = true
			return "", nil
		}
	default:
		// Bare bind: always kept, NULL is a legal bound value.
	}

	site.Context = backCtx
	site.ColumnExpr = detectColumnExpr(l.Raw, site.ByteStart)
	backward := backCtx != OpNone
	if site.Context == OpNone && site.ForwardContext != OpNone {
		site.Context = site.ForwardContext
		site.ColumnExpr = detectLeadingIdent(l.Raw, site.ByteStart)
	}

	switch site.Context {
	case OpIn, OpNotIn:
		if site.Modifier.has(ModAmp) {
			return e.literalText(value), nil
		}
		return e.bindText(site, value, name)
	case OpEqual, OpNotEqual, OpLike, OpNotLike:
		return e.resolveTableContext(site, value, name, backward)
	}

	if site.Modifier.has(ModAmp) {
		return e.literalText(value), nil
	}
	return e.bindText(site, value, name)
}

// resolveTableContext implements spec §4.5 step 4's rewrite table: the
// fragment a site expands to depends on the adjacent operator and the
// resolved value's shape (scalar, multi-element list, or null/empty).
// When ctx came from scanning backward (the operator sits in front of the
// site, already present in the line's raw text) and the shape needs a
// different operator word, backwardConsume tells evaluateLine to erase the
// original operator so the new one can take its place. A null scalar in
// the backward form is the exception: it keeps its operator and binds as
// a NULL placeholder; only the forward form and empty lists become IS NULL.
func (e *Evaluator) resolveTableContext(site *ParamSite, value Value, name string, backward bool) (string, error) {
	switch site.Context {
	case OpEqual, OpNotEqual:
		opWord, notWord := "=", ""
		if site.Context == OpNotEqual {
			opWord, notWord = "<>", "NOT "
		}
		switch {
		case !value.Positive() && backward && !value.IsList():
			return e.bindText(site, value, name)
		case !value.Positive():
			repl := "IS NULL"
			if notWord != "" {
				repl = "IS NOT NULL"
			}
			if backward {
				site.backwardConsume = backwardOperatorLen(site.Line.Raw, site.ByteStart)
			}
			return repl, nil
		case value.IsList() && len(value.List) > 1:
			list, err := e.bindList(site, value, name)
			if err != nil {
				return "", err
			}
			if backward {
				site.backwardConsume = backwardOperatorLen(site.Line.Raw, site.ByteStart)
			}
			return notWord + "IN " + list, nil
		case value.IsList():
			ph, err := e.bindText(site, value.List[0], name)
			if err != nil {
				return "", err
			}
			if backward {
				return ph, nil
			}
			return opWord + " " + ph, nil
		default:
			ph, err := e.bindText(site, value, name)
			if err != nil {
				return "", err
			}
			if backward {
				return ph, nil
			}
			return opWord + " " + ph, nil
		}
	case OpLike, OpNotLike:
		kw := "LIKE"
		if site.Context == OpNotLike {
			kw = "NOT LIKE"
		}
		if value.IsList() {
			var parts []string
			for _, elem := range value.List {
				ph, err := e.bindText(site, elem, name)
				if err != nil {
					return "", err
				}
				parts = append(parts, ph)
			}
			sep := " OR " + site.ColumnExpr + " " + kw + " "
			joined := strings.Join(parts, sep)
			if backward {
				return joined, nil
			}
			return kw + " " + joined, nil
		}
		ph, err := e.bindText(site, value, name)
		if err != nil {
			return "", err
		}
		if backward {
			return ph, nil
		}
		return kw + " " + ph, nil
	}
	return e.bindText(site, value, name)
}

// resolveValue looks up the value for a site, honoring `?` fallback chains
// (spec §4.5) and a bare `@`/plain single name. It also reports which
// candidate name actually produced the value, since the binder needs a
// name to build Oracle's ":NAME_INDEX" placeholders.
func (e *Evaluator) resolveValue(site *ParamSite) (Value, bool, string) {
	if site.Modifier.has(ModQuestion) {
		for _, n := range site.Names {
			v := e.Bindings.Lookup(n)
			if v.Positive() {
				return v, true, n
			}
		}
		name := ""
		if len(site.Names) > 0 {
			name = site.Names[len(site.Names)-1]
		}
		return Null(), false, name
	}
	if len(site.Names) == 0 {
		return Null(), false, ""
	}
	v := e.Bindings.Lookup(site.Names[0])
	return v, v.Positive(), site.Names[0]
}

// mint allocates a fresh sentinel bound to value, recording the
// originating parameter name for the binder.
func (e *Evaluator) mint(name string, v Value) string {
	s := sentinelFor(e.next)
	e.Values[s] = BoundValue{Name: name, Value: v}
	e.next++
	return s
}

// bindText mints a sentinel for value and, for a list value, expands it
// into one sentinel per element joined by commas and wrapped in
// parentheses (spec §4.5 step 3's IN-list handling).
func (e *Evaluator) bindText(site *ParamSite, value Value, name string) (string, error) {
	if value.IsList() {
		return e.bindList(site, value, name)
	}
	return e.mint(name, value), nil
}

func (e *Evaluator) bindList(site *ParamSite, value Value, name string) (string, error) {
	var parts []string
	for _, elem := range value.List {
		parts = append(parts, e.mint(name, elem))
	}
	if len(parts) == 0 {
		// An empty list under IN still belongs in the clause; it just
		// never matches anything (spec §8 scenario 3).
		return "(NULL)", nil
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

func (e *Evaluator) literalText(value Value) string {
	if value.IsList() {
		var parts []string
		for _, elem := range value.List {
			parts = append(parts, e.literalText(elem))
		}
		return strings.Join(parts, ", ")
	}
	if value.Kind == KindNull {
		return "NULL"
	}
	if value.Kind == KindBool {
		if value.Bool {
			return "TRUE"
		}
		return "FALSE"
	}
	return fmt.Sprintf("%v", value.Scalar)
}

func (e *Evaluator) resolveLiteralEmbed(site *ParamSite) (string, error) {
	name := strings.TrimSpace(site.AuxArgs)
	v := e.Bindings.Lookup(name)
	if !v.Positive() {
		return "", nil
	}
	switch site.Aux {
	case AuxStr:
		e.Diagnostics = append(e.Diagnostics, "%STR verbatim splice of "+name)
		return e.literalText(v), nil
	case AuxSql:
		// %SQL embeds the bound value verbatim as raw SQL text, trusting
		// the caller (spec §4.6): used for identifiers/fragments that
		// cannot be parameterized, e.g. a column name chosen at runtime.
		e.Diagnostics = append(e.Diagnostics, "%SQL verbatim splice of "+name)
		if v.Kind == KindScalar {
			if s, ok := v.Scalar.(string); ok {
				return s, nil
			}
		}
		return e.literalText(v), nil
	}
	return "", nil
}

func (e *Evaluator) resolveAuxCall(site *ParamSite) (string, error) {
	switch site.Aux {
	case AuxConcat:
		return e.resolveConcat(site)
	case AuxLike:
		return e.resolveLike(site)
	case AuxInclude:
		return e.resolveInclude(site)
	}
	return "", nil
}

// auxArg is one whitespace-separated token of an auxiliary function's
// argument text: either a bareword parameter name or a single-quoted
// literal segment (spec §4.5's "/*%L args*/... concatenates as %concat
// would").
type auxArg struct {
	literal bool
	text    string
}

func parseAuxArgs(s string) []auxArg {
	var out []auxArg
	i := 0
	for i < len(s) {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) {
			break
		}
		if s[i] == '\'' {
			j := i + 1
			for j < len(s) && s[j] != '\'' {
				j++
			}
			if j >= len(s) {
				out = append(out, auxArg{literal: true, text: s[i+1:]})
				break
			}
			out = append(out, auxArg{literal: true, text: s[i+1 : j]})
			i = j + 1
			continue
		}
		j := i
		for j < len(s) && s[j] != ' ' && s[j] != '\t' {
			j++
		}
		out = append(out, auxArg{text: s[i:j]})
		i = j
	}
	return out
}

// resolveConcat implements %concat/%C: join the named parameters' bound
// text (and any literal segments) with ", ", skipping negative names, for
// building up an ORDER BY or column list whose member count varies at
// runtime.
func (e *Evaluator) resolveConcat(site *ParamSite) (string, error) {
	var parts []string
	for _, a := range parseAuxArgs(site.AuxArgs) {
		if a.literal {
			parts = append(parts, a.text)
			continue
		}
		v := e.Bindings.Lookup(a.text)
		if !v.Positive() {
			continue
		}
		parts = append(parts, e.literalText(v))
	}
	return strings.Join(parts, ", "), nil
}

// resolveLike implements %L: read the argument list with the same grammar
// as %concat, but join the segments with no separator (literal segments
// pass through verbatim), escape only the
// named parameter's own contribution against the dialect's LIKE
// metacharacter set, bind the result, and append "ESCAPE '#'" unless the
// line already carries one (spec §4.5).
func (e *Evaluator) resolveLike(site *ParamSite) (string, error) {
	var raw strings.Builder
	name := ""
	for _, a := range parseAuxArgs(site.AuxArgs) {
		if a.literal {
			raw.WriteString(a.text)
			continue
		}
		name = a.text
		v := e.Bindings.Lookup(a.text)
		if !v.Positive() {
			continue
		}
		text, _ := v.Scalar.(string)
		raw.WriteString(escapeLikePattern(text, e.Dialect))
	}
	ph := e.mint(name, Scalar(raw.String()))
	if site.Line != nil && strings.Contains(strings.ToUpper(site.Line.Raw), "ESCAPE") {
		return ph, nil
	}
	return ph + " ESCAPE '#'", nil
}

func escapeLikePattern(s string, dia Dialect) string {
	set := dia.LikeEscapeSet
	if set == "" {
		set = "%_"
	}
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(set, r) {
			b.WriteByte('#')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// resolveInclude only runs if an %include comment survived the textual
// expansion pass in include.go, which should never happen for a
// well-formed template.
func (e *Evaluator) resolveInclude(site *ParamSite) (string, error) {
	return "", ParseError{Kind: Directive, Name: site.AuxArgs, Message: "unexpanded %include reached the evaluator"}
}

var (
	opEqualPattern    = regexp.MustCompile(`(?i)(!=|<>|=)\s*$`)
	opLikePattern     = regexp.MustCompile(`(?i)\b(not\s+like|like)\s*$`)
	opInPattern       = regexp.MustCompile(`(?i)\b(not\s+in|in)\s*$`)
	columnExprPattern = regexp.MustCompile(`([A-Za-z_][\w.]*)\s*(?:!=|<>|=|like|in)\s*$`)
	leadingIdentPattern = regexp.MustCompile(`([A-Za-z_][\w.]*)\s*$`)
)

// detectOperatorContext inspects the text immediately preceding a site to
// classify the adjacent comparison operator (spec §4.5 step 5's "after
// IN(" case, and the backward form of step 4's table).
func detectOperatorContext(raw string, start int) OperatorContext {
	if start > len(raw) {
		start = len(raw)
	}
	before := raw[:start]
	switch {
	case opLikePattern.MatchString(before):
		m := opLikePattern.FindString(before)
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(m)), "not") {
			return OpNotLike
		}
		return OpLike
	case opInPattern.MatchString(before):
		m := opInPattern.FindString(before)
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(m)), "not") {
			return OpNotIn
		}
		return OpIn
	case opEqualPattern.MatchString(before):
		m := opEqualPattern.FindString(before)
		if strings.TrimSpace(m) == "=" {
			return OpEqual
		}
		return OpNotEqual
	}
	return OpNone
}

// backwardOperatorLen reports how many bytes before start belong to the
// "=" / "<>" operator that resolveTableContext is about to replace.
func backwardOperatorLen(raw string, start int) int {
	if start > len(raw) {
		start = len(raw)
	}
	loc := opEqualPattern.FindStringIndex(raw[:start])
	if loc == nil {
		return 0
	}
	return start - loc[0]
}

func detectColumnExpr(raw string, start int) string {
	if start > len(raw) {
		start = len(raw)
	}
	before := raw[:start]
	m := columnExprPattern.FindStringSubmatch(before)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// detectLeadingIdent returns the bare identifier immediately preceding a
// site that has no adjacent operator behind it, used for the forward
// rewrite case ("FIELD1 /* p */= 100") where the column expression sits
// in front of the comment with nothing but whitespace in between.
func detectLeadingIdent(raw string, start int) string {
	if start > len(raw) {
		start = len(raw)
	}
	m := leadingIdentPattern.FindStringSubmatch(raw[:start])
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
