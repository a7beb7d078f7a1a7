package engine

import "fmt"

// FileRef is a dedicated type for a template's logical path, kept distinct
// from string in case we need to refactor how templates are identified.
type FileRef string

// Pos is a position in a template, 1-indexed for human-readable diagnostics.
type Pos struct {
	File FileRef
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}
