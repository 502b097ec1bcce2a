package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVersionTable(t *testing.T) {
	table := ParseVersionTable("v1\napps/v1\napps/v1beta2\n\n  batch/v1  \nnot/a/version\n")

	assert.Equal(t, VersionTable{
		"":      {"v1"},
		"apps":  {"v1", "v1beta2"},
		"batch": {"v1"},
	}, table)
}

func TestVersionTablePreferred(t *testing.T) {
	table := VersionTable{
		"scheduling.k8s.io": {"v1alpha1", "v1beta1"},
		"autoscaling":       {"v1", "v2beta1", "v2", "v2beta2"},
		"example.com":       {"v1alpha1", "v1alpha2"},
	}

	tests := []struct {
		group string
		want  string
		ok    bool
	}{
		{group: "scheduling.k8s.io", want: "v1beta1", ok: true},
		{group: "autoscaling", want: "v2", ok: true},
		{group: "example.com", want: "v1alpha2", ok: true},
		{group: "missing.io", want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			got, ok := table.Preferred(tt.group)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionTableResolve(t *testing.T) {
	table := VersionTable{"autoscaling": {"v1", "v2"}}

	v, ok := table.Resolve("autoscaling", "v1")
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	v, ok = table.Resolve("autoscaling", "v2beta9")
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	v, ok = table.Resolve("autoscaling", "")
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	_, ok = table.Resolve("apps", "v1")
	assert.False(t, ok)
}
