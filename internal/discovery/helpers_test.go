package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giantswarm/kdeploy/internal/kubectl/kubectltest"
	"github.com/giantswarm/kdeploy/internal/logging"
)

var (
	globalArgs     = []string{"api-resources", "--namespaced=false"}
	namespacedArgs = []string{"api-resources", "--namespaced=true"}
	versionsArgs   = []string{"api-versions"}
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func ok(stdout string) kubectltest.Response {
	return kubectltest.Response{Stdout: stdout, Success: true}
}

func failed(stdout string) kubectltest.Response {
	return kubectltest.Response{Stdout: stdout, Stderr: "connection refused", Success: false}
}

func newTestCatalog(fake *kubectltest.Fake) *Catalog {
	return NewCatalog(fake, logging.NewSlogAdapter(nil))
}

// renderTable pads rows into a fixed-width table the way kubectl does.
func renderTable(rows [][]string) string {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			line.WriteString(cell)
			if i < len(row)-1 {
				line.WriteString(strings.Repeat(" ", widths[i]-len(cell)+3))
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteString("\n")
	}
	return b.String()
}
