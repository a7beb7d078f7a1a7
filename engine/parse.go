package engine

// Document is the parsed, bound result of a single template (spec §6): a
// final SQL string ready for a database/sql-style driver, its positional
// argument list in the same order as the placeholders in SQL, and, for
// named-placeholder dialects, the name->value map invariant 2 of spec §8
// requires (its keys equal the set of ":X" tokens in SQL).
type Document struct {
	SQL         string
	Args        []any
	NamedParams map[string]any

	// Diagnostics records facts about the parse the caller should be able
	// to see even though they don't fail it, chiefly every %STR/%SQL
	// splice site, since those bypass placeholder binding entirely
	// (spec §4.5).
	Diagnostics []string
}

// Parse runs the full pipeline described in spec §2 against src: tokenize,
// assemble logical lines, build the indentation tree, resolve %if/%IF
// directives, parse parameter sites, evaluate them against bindings,
// propagate line removal, rewrite the surviving SQL, and bind it to dia's
// placeholder syntax.
func Parse(src string, file FileRef, b Bindings, dia Dialect) (Document, error) {
	tokens, err := NewScanner(src, file, dia).Tokenize()
	if err != nil {
		return Document{}, err
	}

	lines := assembleLines(tokens, file)
	root := buildTree(lines)

	if err := ResolveDirectives(root, b); err != nil {
		return Document{}, err
	}
	if err := ParseSites(root, file, dia); err != nil {
		return Document{}, err
	}

	ev := NewEvaluator(b, dia)
	if err := ev.Evaluate(root); err != nil {
		return Document{}, err
	}

	Propagate(root)
	text := Rewrite(root)

	sql, args, named, err := Bind(text, ev.Values, dia)
	if err != nil {
		return Document{}, err
	}
	return Document{SQL: sql, Args: args, NamedParams: named, Diagnostics: ev.Diagnostics}, nil
}
