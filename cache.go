package twowaysql

import (
	"sync"

	"github.com/twowaysql/twowaysql/engine"
)

// TemplateCache memoizes the %include-expanded source text for a
// (path, dialect) pair, so a hot query path only pays the filesystem read
// and textual include expansion once (spec §5: read-mostly, rarely
// invalidated). It caches source text rather than a parsed Document,
// since Bindings legitimately differ on every call.
type TemplateCache struct {
	entries sync.Map // cacheKey -> string
}

type cacheKey struct {
	path      string
	dialectID string
}

// Load returns the expanded source for ref under dia, reading and
// expanding it via loader on first use.
func (c *TemplateCache) Load(loader Loader, ref engine.FileRef, dia engine.Dialect) (string, error) {
	key := cacheKey{path: string(ref), dialectID: dia.ID}
	if v, ok := c.entries.Load(key); ok {
		return v.(string), nil
	}

	raw, err := loader.Load(ref)
	if err != nil {
		return "", err
	}
	expanded, err := engine.ExpandIncludes(raw, ref, loaderResolver(loader), nil)
	if err != nil {
		return "", err
	}
	c.entries.Store(key, expanded)
	return expanded, nil
}

// Invalidate drops every cached entry, for callers that reload templates
// after an on-disk edit.
func (c *TemplateCache) Invalidate() {
	c.entries.Range(func(k, _ interface{}) bool {
		c.entries.Delete(k)
		return true
	})
}

func loaderResolver(loader Loader) engine.Resolver {
	return func(ref engine.FileRef) (string, error) {
		return loader.Load(ref)
	}
}
