package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmdPrintsRootVersion(t *testing.T) {
	for version, want := range map[string]string{
		"dev":    "kdeploy version dev\n",
		"v1.2.3": "kdeploy version v1.2.3\n",
	} {
		t.Run(version, func(t *testing.T) {
			saved := rootCmd.Version
			t.Cleanup(func() { rootCmd.Version = saved })
			rootCmd.Version = version

			var out bytes.Buffer
			c := newVersionCmd()
			c.SetOut(&out)
			c.SetArgs(nil)

			require.NoError(t, c.Execute())
			assert.Equal(t, want, out.String())
		})
	}
}
