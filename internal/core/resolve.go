package core

// resolve.go is the field resolver: it maps the messy header text of an
// upload onto the fixed logical fields each record kind declares. After
// ResolveFields runs, the rest of the pipeline never touches the raw Row.

import "strings"

// canonHeader canonicalizes header text for comparison under the given
// match mode.
func canonHeader(s string, mode MatchMode) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if mode == MatchLoose {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// headerIndex maps canonicalized header text to the original Row key.
// Built once per row, reused for every field spec.
type headerIndex map[string]string

func indexHeaders(row Row, mode MatchMode) headerIndex {
	idx := make(headerIndex, len(row))
	for k := range row {
		idx[canonHeader(k, mode)] = k
	}
	return idx
}

// resolveOne returns the trimmed value of the first alias that holds a
// non-empty cell, or "". Empty cells are skipped in favor of a later
// alias, so alias order encodes precedence only among populated columns.
func resolveOne(row Row, idx headerIndex, spec FieldSpec, mode MatchMode) string {
	for _, alias := range spec.Aliases {
		key, ok := idx[canonHeader(alias, mode)]
		if !ok {
			continue
		}
		if v := strings.TrimSpace(row[key]); v != "" {
			return v
		}
	}
	return ""
}

// ResolveField resolves a single logical field against a row.
func ResolveField(row Row, spec FieldSpec, mode MatchMode) string {
	return resolveOne(row, indexHeaders(row, mode), spec, mode)
}

// ResolveFields resolves every declared field at once, producing the fixed
// record shape the rest of the pipeline works from.
func ResolveFields(row Row, specs []FieldSpec, mode MatchMode) ResolvedFields {
	idx := indexHeaders(row, mode)
	out := make(ResolvedFields, len(specs))
	for _, spec := range specs {
		out[spec.Name] = resolveOne(row, idx, spec, mode)
	}
	return out
}

// HasHeader reports whether the row contains a column matching name under
// the given mode, regardless of the cell's value. Used for the pre-flight
// required-header check.
func HasHeader(row Row, name string, mode MatchMode) bool {
	want := canonHeader(name, mode)
	for k := range row {
		if canonHeader(k, mode) == want {
			return true
		}
	}
	return false
}
