package twowaysql

import (
	"strconv"
	"strings"

	"github.com/twowaysql/twowaysql/engine"
)

// Bindings re-exports engine.Bindings so callers only need to import this
// package for the common case.
type Bindings = engine.Bindings

// Dialect re-exports engine.Dialect for the same reason; concrete
// instances live in the sibling dialect package.
type Dialect = engine.Dialect

// Render loads ref through loader (expanding %include targets, using
// cache if non-nil), then runs the full engine pipeline against bindings
// and dia, returning the bound SQL and its argument list.
func Render(loader Loader, cache *TemplateCache, ref engine.FileRef, bindings Bindings, dia Dialect) (engine.Document, error) {
	var src string
	var err error
	if cache != nil {
		src, err = cache.Load(loader, ref, dia)
	} else {
		src, err = loader.Load(ref)
		if err == nil {
			src, err = engine.ExpandIncludes(src, ref, loaderResolver(loader), nil)
		}
	}
	if err != nil {
		return engine.Document{}, err
	}
	doc, err := engine.Parse(src, ref, bindings, dia)
	if err != nil {
		return engine.Document{}, err
	}
	doc.SQL = renumberPostgreSQLPlaceholders(doc.SQL, dia)
	return doc, nil
}

// renumberPostgreSQLPlaceholders turns the engine's generic "%s"
// placeholders into pgx's "$1", "$2", ... numbering. The engine itself
// stays driver-agnostic (spec §4.8 only specifies a stable textual form
// per dialect); this is where that form meets pgx's actual wire protocol.
func renumberPostgreSQLPlaceholders(sqlText string, dia engine.Dialect) string {
	if dia.Placeholder != engine.PercentS {
		return sqlText
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(sqlText); i++ {
		if sqlText[i] == '%' && i+1 < len(sqlText) && sqlText[i+1] == 's' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			i++
			continue
		}
		b.WriteByte(sqlText[i])
	}
	return b.String()
}

// RenderString runs the pipeline directly against an in-memory template,
// skipping the loader entirely. %include is unavailable: there is no
// directory to resolve a relative path against.
func RenderString(src string, bindings Bindings, dia Dialect) (engine.Document, error) {
	doc, err := engine.Parse(src, engine.FileRef("<string>"), bindings, dia)
	if err != nil {
		return engine.Document{}, err
	}
	doc.SQL = renumberPostgreSQLPlaceholders(doc.SQL, dia)
	return doc, nil
}
