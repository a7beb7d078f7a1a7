package engine

import (
	"regexp"
	"strings"
)

var (
	leadingAndOr   = regexp.MustCompile(`(?i)^(\s*)(AND|OR)\b\s*`)
	trailingComma  = regexp.MustCompile(`,(\s*)$`)
	emptyParens    = regexp.MustCompile(`\(\s*\)`)
	blankLineRuns  = regexp.MustCompile(`\n{3,}`)
	orphanWhere    = regexp.MustCompile(`(?im)^\s*WHERE\s*$\n?`)
	orphanAndGroup = regexp.MustCompile(`(?im)^\s*(AND|OR)\s*\(\s*\)\s*$\n?`)

	// orphanInlineGroup catches the same dead "AND ( )" / "OR ( )" fragment
	// as orphanAndGroup but mid-line, left behind when every predicate
	// inside a parenthesized group is removed without the group itself
	// occupying its own line (spec §4.7).
	orphanInlineGroup = regexp.MustCompile(`(?i)\s+(AND|OR)\s*\(\s*\)`)
)

// Rewrite flattens the surviving lines of the tree rooted at root into
// final SQL text, then applies the cleanups spec §4.7 requires once
// conditional content has been dropped: a group's first surviving
// sibling loses its leading AND/OR, a now-empty WHERE disappears, trailing
// separators and empty parens collapse, and blank-line runs shrink to one.
func Rewrite(root *LogicalLine) string {
	stripLeadingConnectives(root)

	var lines []string
	walk(root, func(l *LogicalLine) {
		if l == root || l.Removed {
			return
		}
		lines = append(lines, l.Raw)
	})
	text := strings.Join(lines, "\n")

	text = orphanWhere.ReplaceAllString(text, "")
	text = orphanAndGroup.ReplaceAllString(text, "")
	text = orphanInlineGroup.ReplaceAllString(text, "")
	text = emptyParens.ReplaceAllString(text, "()")
	text = stripTrailingSeparatorsBeforeClauseEnd(text)
	text = blankLineRuns.ReplaceAllString(text, "\n\n")
	return text
}

// stripLeadingConnectives walks every parent's surviving children and
// removes a leading AND/OR from whichever child ends up first, since that
// connective only made sense glued to a predecessor that may now be gone.
func stripLeadingConnectives(l *LogicalLine) {
	first := true
	for _, c := range l.Children {
		if !c.Removed {
			if first {
				c.Raw = leadingAndOr.ReplaceAllString(c.Raw, "$1")
			}
			first = false
		}
		stripLeadingConnectives(c)
	}
}

// stripTrailingSeparatorsBeforeClauseEnd removes a dangling comma that
// now immediately precedes a clause keyword or the end of the statement,
// left behind when the last item in a list was removed.
func stripTrailingSeparatorsBeforeClauseEnd(text string) string {
	lines := strings.Split(text, "\n")
	clauseKeyword := regexp.MustCompile(`(?i)^\s*(FROM|WHERE|GROUP BY|ORDER BY|HAVING|LIMIT|\))`)
	for i := 0; i < len(lines); i++ {
		if i+1 >= len(lines) {
			continue
		}
		next := strings.TrimSpace(lines[i+1])
		if next == "" || clauseKeyword.MatchString(lines[i+1]) {
			lines[i] = trailingComma.ReplaceAllString(lines[i], "$1")
		}
	}
	return strings.Join(lines, "\n")
}
