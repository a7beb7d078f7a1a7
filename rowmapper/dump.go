package rowmapper

import "github.com/alecthomas/repr"

// Dump renders a MapRow as a sequence of "column = value" lines, quoting
// string values the same way the vippsas/sqlcode query-dump helper did,
// so a failing assertion in a caller's test prints something legible
// instead of Go's default %v for a map.
func Dump(row MapRow) string {
	var out string
	for col, val := range row {
		out += col + " = " + repr.String(val) + "\n"
	}
	return out
}
