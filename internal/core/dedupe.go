package core

import "strings"

// Deduplicator tracks composite identity keys seen within one batch.
// It is owned by a single BatchContext and must not outlive the batch.
type Deduplicator struct {
	seen map[string]struct{}
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// CheckAndRegister registers key and reports whether it had already been
// seen in this batch. An empty key is never considered a duplicate.
func (d *Deduplicator) CheckAndRegister(key string) bool {
	if key == "" {
		return false
	}
	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

// DedupeKey builds a composite identity key from the given parts,
// lower-cased and trimmed so key derivation is a pure function of the
// normalized identity fields. Empty parts are kept so "a||c" and "a|b|c"
// stay distinct.
func DedupeKey(parts ...string) string {
	norm := make([]string, len(parts))
	for i, p := range parts {
		norm[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(norm, "|")
}
