package engine

import "strings"

// auxDirectiveKeywords are the inline conditional keywords; these are
// fully consumed by the directive processor (directive.go) before the
// evaluator ever sees a ParamSite, but parseAuxComment still recognizes
// them so the scanner/directive boundary can share one comment grammar.
var auxDirectiveKeywords = map[string]bool{
	"if": true, "elseif": true, "else": true, "end": true,
}

// parseAuxComment parses the interior of a "%..." parameter comment into
// its auxiliary shape (spec §4.6).
func parseAuxComment(trimmed string) (parsedComment, error) {
	body := strings.TrimPrefix(trimmed, "%")

	switch {
	case hasAuxWord(body, "if"), hasAuxWord(body, "elseif"):
		return parsedComment{kind: SiteDirectiveCond, auxArgs: directiveArgs(body)}, nil
	case body == "else", body == "end", strings.HasPrefix(body, "else "), strings.HasPrefix(body, "end "):
		return parsedComment{kind: SiteDirectiveCond, auxArgs: directiveArgs(body)}, nil
	case hasAuxWord(body, "concat"):
		return parsedComment{kind: SiteAuxCall, aux: AuxConcat, auxArgs: directiveArgs(body)}, nil
	case strings.HasPrefix(body, "C"):
		return parsedComment{kind: SiteAuxCall, aux: AuxConcat, auxArgs: strings.TrimSpace(strings.TrimPrefix(body, "C"))}, nil
	case strings.HasPrefix(body, "L"):
		return parsedComment{kind: SiteAuxCall, aux: AuxLike, auxArgs: strings.TrimSpace(strings.TrimPrefix(body, "L"))}, nil
	case hasAuxWord(body, "STR"):
		return parsedComment{kind: SiteLiteralEmbed, aux: AuxStr, auxArgs: directiveArgs(body)}, nil
	case hasAuxWord(body, "SQL"):
		return parsedComment{kind: SiteLiteralEmbed, aux: AuxSql, auxArgs: directiveArgs(body)}, nil
	case hasAuxWord(body, "include"):
		return parsedComment{kind: SiteAuxCall, aux: AuxInclude, auxArgs: directiveArgs(body)}, nil
	default:
		return parsedComment{}, ParseError{Kind: Directive, Message: "unrecognized auxiliary comment: %" + body}
	}
}

// hasAuxWord reports whether body begins with word followed by a
// delimiter (whitespace or '(') or is exactly word.
func hasAuxWord(body, word string) bool {
	if body == word {
		return true
	}
	if !strings.HasPrefix(body, word) {
		return false
	}
	rest := body[len(word):]
	return strings.HasPrefix(rest, "(") || strings.HasPrefix(rest, " ") || strings.HasPrefix(rest, "\t")
}

// directiveArgs strips the leading keyword from body, returning the
// trailing argument text with its delimiters normalized.
func directiveArgs(body string) string {
	i := 0
	for i < len(body) && (isIdentStartRune(rune(body[i])) || (i > 0 && isIdentRune(rune(body[i])))) {
		i++
	}
	rest := strings.TrimSpace(body[i:])
	rest = strings.TrimPrefix(rest, "(")
	rest = strings.TrimSuffix(rest, ")")
	return strings.TrimSpace(rest)
}
