package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var sentinelPattern = regexp.MustCompile(`\x00P(\d+)\x00`)

// Bind performs the final stage of the pipeline (spec §4.8): it replaces
// every sentinel left by the evaluator with the dialect's placeholder
// syntax and returns the ordered argument slice a database/sql driver
// expects, plus a name->value map for dialects that bind by name. Oracle's
// 1000-element IN-list ceiling is enforced by splitting an over-long
// sentinel-only IN group into an OR'd sequence of smaller groups before
// placeholders are assigned, so argument order still matches the rewritten
// text.
func Bind(text string, values map[string]BoundValue, dia Dialect) (string, []any, map[string]any, error) {
	if dia.InListLimit > 0 {
		var err error
		text, err = splitOversizedInLists(text, dia.InListLimit)
		if err != nil {
			return "", nil, nil, err
		}
	}

	var args []any
	named := map[string]any{}
	counts := map[string]int{}
	var missing string
	out := sentinelPattern.ReplaceAllStringFunc(text, func(match string) string {
		bv, ok := values[match]
		if !ok {
			missing = match
			return match
		}
		name := bv.Name
		if name == "" {
			name = "p"
		}
		idx := counts[name]
		counts[name] = idx + 1
		arg := valueArg(bv.Value)
		args = append(args, arg)
		if dia.Placeholder == NamedColon {
			named[name+"_"+strconv.Itoa(idx)] = arg
		}
		return placeholderFor(dia, name, idx)
	})
	if missing != "" {
		return "", nil, nil, ParseError{Kind: DialectError, Message: "unresolved sentinel " + missing}
	}
	return out, args, named, nil
}

// placeholderFor renders a single bound value's placeholder. Oracle's
// ":NAME_INDEX" form (spec §4.8, §8 scenario 7) combines the originating
// parameter name with a per-name counter so a list parameter's elements
// come out as ":ids_0", ":ids_1", ... in binding order.
func placeholderFor(dia Dialect, name string, index int) string {
	switch dia.Placeholder {
	case PercentS:
		return "%s"
	case NamedColon:
		return ":" + name + "_" + strconv.Itoa(index)
	default:
		return "?"
	}
}

func valueArg(v Value) any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	default:
		return v.Scalar
	}
}

// oversizedInPattern matches a column expression followed by IN/NOT IN and
// a parenthesized, comma-separated run of sentinels with nothing else
// inside: exactly what the evaluator emits for a bound list (spec §4.5
// step 3).
var oversizedInPattern = regexp.MustCompile(`(?i)([A-Za-z_][\w.]*)\s+(NOT\s+IN|IN)\s*\(((?:\x00P\d+\x00,\s*)*\x00P\d+\x00)\)`)

func splitOversizedInLists(text string, limit int) (string, error) {
	return oversizedInPattern.ReplaceAllStringFunc(text, func(match string) string {
		m := oversizedInPattern.FindStringSubmatch(match)
		col, kw, inner := m[1], strings.ToUpper(m[2]), m[3]

		sentinels := strings.Split(inner, ",")
		for i := range sentinels {
			sentinels[i] = strings.TrimSpace(sentinels[i])
		}
		if len(sentinels) <= limit {
			return match
		}

		var groups []string
		for i := 0; i < len(sentinels); i += limit {
			end := i + limit
			if end > len(sentinels) {
				end = len(sentinels)
			}
			groups = append(groups, fmt.Sprintf("%s %s (%s)", col, kw, strings.Join(sentinels[i:end], ", ")))
		}
		joiner := " OR "
		if kw == "NOT IN" {
			joiner = " AND "
		}
		return "(" + strings.Join(groups, joiner) + ")"
	}), nil
}
