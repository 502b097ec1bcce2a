package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfUpdateRefusesDevelopmentBuilds(t *testing.T) {
	for _, v := range []string{devVersion, ""} {
		t.Run("version="+v, func(t *testing.T) {
			saved := rootCmd.Version
			t.Cleanup(func() { rootCmd.Version = saved })
			rootCmd.Version = v

			c := newSelfUpdateCmd()
			c.SetArgs(nil)
			err := c.Execute()
			require.Error(t, err)
			assert.EqualError(t, err, "cannot self-update a development version")
		})
	}
}

func TestSelfUpdateCommand(t *testing.T) {
	c := newSelfUpdateCmd()

	assert.Equal(t, "self-update", c.Use)
	assert.Contains(t, c.Long, "kdeploy release")
	assert.Equal(t, "giantswarm/kdeploy", githubRepoSlug)
}
