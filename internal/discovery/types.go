package discovery

import "strings"

// Scope classifies a resource kind as namespaced or cluster-scoped.
type Scope int

const (
	ScopeNamespaced Scope = iota
	ScopeGlobal
)

// String returns "namespaced" or "global".
func (s Scope) String() string {
	if s == ScopeGlobal {
		return "global"
	}
	return "namespaced"
}

// Filter selects which resource kinds a discovery call returns.
type Filter int

const (
	FilterAll Filter = iota
	FilterGlobal
	FilterNamespaced
)

// String returns the filter name used in logs.
func (f Filter) String() string {
	switch f {
	case FilterGlobal:
		return "global"
	case FilterNamespaced:
		return "namespaced"
	default:
		return "all"
	}
}

func (f Filter) args() []string {
	switch f {
	case FilterGlobal:
		return []string{commandAPIResources, "--namespaced=false"}
	case FilterNamespaced:
		return []string{commandAPIResources, "--namespaced=true"}
	default:
		return []string{commandAPIResources}
	}
}

// ResourceKindInfo describes one resource kind reported by discovery.
// Values are created fresh by every discovery call and never mutated.
type ResourceKindInfo struct {
	// Name is the plural resource name, e.g. "priorityclasses".
	Name string

	Kind string

	// APIGroup is empty for the core group.
	APIGroup string

	// APIVersion is the version reported alongside the kind, if the
	// discovery output carries one. Legacy output only reports the group.
	APIVersion string

	Scope Scope

	// Verbs is nil when the discovery output has no verbs column.
	Verbs []string
}

// Supports reports whether the kind supports verb. Kinds with unknown verbs
// support everything.
func (r ResourceKindInfo) Supports(verb string) bool {
	if r.Verbs == nil {
		return true
	}
	for _, v := range r.Verbs {
		if strings.EqualFold(v, verb) {
			return true
		}
	}
	return false
}

// PrunableResourceID identifies a kind that may be pruned, in the
// "<group>/<version>/<Kind>" form. The core group is written as "core".
type PrunableResourceID string

// coreGroupName is how the empty core API group is spelled in identifiers.
const coreGroupName = "core"

// NewPrunableResourceID formats group, version and kind into an identifier.
func NewPrunableResourceID(group, version, kind string) PrunableResourceID {
	if group == "" {
		group = coreGroupName
	}
	return PrunableResourceID(group + "/" + version + "/" + kind)
}

// Kind returns the kind part of the identifier.
func (id PrunableResourceID) Kind() string {
	s := string(id)
	return s[strings.LastIndex(s, "/")+1:]
}

// String implements fmt.Stringer.
func (id PrunableResourceID) String() string {
	return string(id)
}

// KindNames returns the kind of each resource, in order.
func KindNames(resources []ResourceKindInfo) []string {
	kinds := make([]string, 0, len(resources))
	for _, r := range resources {
		kinds = append(kinds, r.Kind)
	}
	return kinds
}
