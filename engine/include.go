package engine

import (
	"regexp"
)

var includePattern = regexp.MustCompile(`(?i)/\*\s*%include\s+"([^"]+)"\s*\*/`)

// Resolver fetches the raw template text for an include target. The root
// twowaysql package implements it over an fs.FS (see loader.go).
type Resolver func(ref FileRef) (string, error)

// ExpandIncludes textually splices %include targets into src before
// tokenizing starts, so the tokenizer, line assembler and tree builder
// never need to know a document was assembled from multiple files
// (spec §4.6). Cycles are rejected via seen, which the caller should pass
// as an empty map on the initial call.
func ExpandIncludes(src string, file FileRef, resolve Resolver, seen map[FileRef]bool) (string, error) {
	if seen == nil {
		seen = map[FileRef]bool{}
	}
	if seen[file] {
		return "", ParseError{Kind: IncludeCycle, Name: string(file), Message: "include cycle detected"}
	}
	seen[file] = true
	defer delete(seen, file)

	var outerErr error
	out := includePattern.ReplaceAllStringFunc(src, func(match string) string {
		if outerErr != nil {
			return match
		}
		m := includePattern.FindStringSubmatch(match)
		target := FileRef(m[1])
		text, err := resolve(target)
		if err != nil {
			outerErr = err
			return match
		}
		expanded, err := ExpandIncludes(text, target, resolve, seen)
		if err != nil {
			outerErr = err
			return match
		}
		return expanded
	})
	if outerErr != nil {
		return "", outerErr
	}
	return out, nil
}
