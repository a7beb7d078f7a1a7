package twowaysql

import (
	"fmt"
	"strings"

	"github.com/twowaysql/twowaysql/engine"
)

// ParseErrors aggregates the engine.ParseError values collected while
// checking every template under a directory (see cli/cmd/check.go), so a
// single `twowaysql check` run reports every broken file instead of
// stopping at the first one.
type ParseErrors struct {
	Errors []error
}

func (e ParseErrors) Error() string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("%d template(s) failed to parse:\n", len(e.Errors)))
	for _, err := range e.Errors {
		if pe, ok := err.(engine.ParseError); ok {
			msg.WriteString(fmt.Sprintf("  %s: %s\n", pe.Pos, pe.Error()))
			continue
		}
		msg.WriteString(fmt.Sprintf("  %s\n", err))
	}
	return msg.String()
}
