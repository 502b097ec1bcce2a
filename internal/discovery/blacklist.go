package discovery

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultProtectedKinds are never pruned unless the blacklist is replaced.
var DefaultProtectedKinds = []string{"Namespace", "Node"}

// Blacklist holds kinds that must never be pruned. Matching is a
// case-insensitive substring test, so "node" also protects "CSINode".
type Blacklist struct {
	entries []string
}

// NewBlacklist builds a blacklist from kind substrings. Empty entries are
// ignored.
func NewBlacklist(kinds ...string) Blacklist {
	b := Blacklist{}
	for _, k := range kinds {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		b.entries = append(b.entries, fold(k))
	}
	return b
}

// DefaultBlacklist returns a blacklist of DefaultProtectedKinds.
func DefaultBlacklist() Blacklist {
	return NewBlacklist(DefaultProtectedKinds...)
}

// Protects reports whether kind matches any blacklist entry.
func (b Blacklist) Protects(kind string) bool {
	folded := fold(kind)
	for _, e := range b.entries {
		if strings.Contains(folded, e) {
			return true
		}
	}
	return false
}

// fold case-folds s. Casers are stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
