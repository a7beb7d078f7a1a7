package engine

// Bindings maps a parameter name to its caller-supplied value (spec §3).
// A name absent from Bindings is treated as negative/null, same as an
// explicit Null() entry.
type Bindings map[string]Value

// Lookup resolves name, treating a missing key as Null().
func (b Bindings) Lookup(name string) Value {
	if v, ok := b[name]; ok {
		return v
	}
	return Null()
}

// FirstPositive scans names in order and returns the first positive
// value found (the `?` fallback-chain semantics of spec §4.5), or
// (Null(), false) if none are positive.
func (b Bindings) FirstPositive(names []string) (Value, bool) {
	for _, n := range names {
		v := b.Lookup(n)
		if v.Positive() {
			return v, true
		}
	}
	return Null(), false
}
