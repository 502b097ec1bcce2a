package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerbs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "[create delete get]", want: []string{"create", "delete", "get"}},
		{in: "create,delete,get", want: []string{"create", "delete", "get"}},
		{in: "[]", want: []string{}},
		{in: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseVerbs(tt.in))
		})
	}
}

func TestParseHeader(t *testing.T) {
	columns := parseHeader("NAME   SHORTNAMES   APIVERSION   NAMESPACED   KIND")

	assert.Equal(t, column{start: 0, end: 7}, columns["NAME"])
	assert.Equal(t, column{start: 7, end: 20}, columns["SHORTNAMES"])
	assert.Equal(t, column{start: 46, end: -1}, columns["KIND"])
}

func TestResourceWithoutVerbsColumnSupportsEverything(t *testing.T) {
	raw := renderTable([][]string{
		{"NAME", "APIGROUP", "NAMESPACED", "KIND"},
		{"pods", "", "true", "Pod"},
	})

	resources, skipped, err := parseResourceTable(raw)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, resources, 1)
	assert.Nil(t, resources[0].Verbs)
	assert.True(t, resources[0].Supports("delete"))
}

func TestResourceWithoutDeleteVerb(t *testing.T) {
	raw := renderTable([][]string{
		{"NAME", "APIGROUP", "NAMESPACED", "KIND", "VERBS"},
		{"bindings", "", "true", "Binding", "[create]"},
	})

	resources, _, err := parseResourceTable(raw)
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.False(t, resources[0].Supports("delete"))
}
