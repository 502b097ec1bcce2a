package discovery

import (
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/version"
)

// VersionTable maps an API group to the versions the cluster serves for it.
// The core group is keyed by the empty string.
type VersionTable map[string][]string

// ParseVersionTable parses `kubectl api-versions` output, one group/version
// per line. Lines that are not valid group/versions are skipped.
func ParseVersionTable(raw string) VersionTable {
	table := VersionTable{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		gv, err := schema.ParseGroupVersion(line)
		if err != nil || gv.Version == "" {
			continue
		}
		table[gv.Group] = append(table[gv.Group], gv.Version)
	}
	return table
}

// Has reports whether the table lists version for group.
func (t VersionTable) Has(group, v string) bool {
	for _, candidate := range t[group] {
		if candidate == v {
			return true
		}
	}
	return false
}

// Preferred returns the highest version served for group by Kubernetes
// version ordering, so v1 wins over v1beta2 which wins over v1alpha1.
func (t VersionTable) Preferred(group string) (string, bool) {
	versions := t[group]
	if len(versions) == 0 {
		return "", false
	}
	sorted := append([]string(nil), versions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return version.CompareKubeAwareVersionStrings(sorted[i], sorted[j]) > 0
	})
	return sorted[0], true
}

// Resolve picks the version to address group with. A hint reported by the
// kind table is used when the cluster serves it; otherwise the preferred
// version of the group. ok is false when the group is not served at all.
func (t VersionTable) Resolve(group, hint string) (string, bool) {
	if hint != "" && t.Has(group, hint) {
		return hint, true
	}
	return t.Preferred(group)
}
