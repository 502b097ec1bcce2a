package kubectl

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/wait"
)

// shellExec returns an Exec whose commands run script through sh instead of kubectl.
// The kubectl arguments are available to the script as "$@".
func shellExec(t *testing.T, opts Options, script string) *Exec {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	opts.Backoff = wait.Backoff{Duration: time.Millisecond, Factor: 1}
	e := NewExec(opts)
	e.newCommand = func(ctx context.Context, _ string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", append([]string{"-c", script, "kubectl"}, args...)...)
	}
	return e
}

func TestExecArgs(t *testing.T) {
	e := NewExec(Options{Context: "prod", Namespace: "web", RequestTimeout: 10 * time.Second})

	tests := []struct {
		name string
		args []string
		opts RunOptions
		want []string
	}{
		{
			name: "global discovery",
			args: []string{"api-resources", "--namespaced=false"},
			opts: RunOptions{Output: OutputWide},
			want: []string{"api-resources", "--namespaced=false", "--context=prod", "--output=wide", "--request-timeout=10s"},
		},
		{
			name: "namespaced command",
			args: []string{"get", "pods"},
			opts: RunOptions{UseNamespace: true},
			want: []string{"get", "pods", "--context=prod", "--namespace=web", "--request-timeout=10s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Args(tt.args, tt.opts))
		})
	}
}

func TestExecRunSuccess(t *testing.T) {
	e := shellExec(t, Options{Context: "prod"}, `echo "$1"; echo warn >&2`)

	stdout, stderr, status := e.Run(context.Background(), []string{"api-versions"}, RunOptions{Attempts: 5})

	assert.True(t, status.Success)
	assert.NoError(t, status.Err)
	assert.Equal(t, "api-versions\n", stdout)
	assert.Equal(t, "warn\n", stderr)
}

func TestExecRunRetriesUntilExhausted(t *testing.T) {
	counter := filepath.Join(t.TempDir(), "attempts")
	e := shellExec(t, Options{}, `echo x >> `+counter+`; echo nope >&2; exit 3`)

	_, stderr, status := e.Run(context.Background(), []string{"api-versions"}, RunOptions{Attempts: 5})

	assert.False(t, status.Success)
	assert.Equal(t, 3, status.ExitCode)
	assert.Error(t, status.Err)
	assert.Equal(t, "nope\n", stderr)

	data, err := os.ReadFile(counter)
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(string(data), "x"))
}

func TestExecRunDefaultBackoffMakesEveryAttempt(t *testing.T) {
	counter := filepath.Join(t.TempDir(), "attempts")
	e := shellExec(t, Options{}, `echo x >> `+counter+`; exit 1`)

	// Same growth and cap as the default policy, scaled from seconds down
	// to milliseconds.
	def := NewExec(Options{}).opts.Backoff
	e.opts.Backoff = def
	e.opts.Backoff.Duration = def.Duration / 1000
	e.opts.Backoff.Cap = def.Cap / 1000

	_, _, status := e.Run(context.Background(), []string{"api-resources"}, RunOptions{Attempts: DefaultAttempts})

	assert.False(t, status.Success)
	data, err := os.ReadFile(counter)
	require.NoError(t, err)
	assert.Equal(t, DefaultAttempts, strings.Count(string(data), "x"))
}

func TestExecRunRecoversAfterTransientFailure(t *testing.T) {
	counter := filepath.Join(t.TempDir(), "attempts")
	script := `echo x >> ` + counter + `; [ "$(wc -l < ` + counter + ` | tr -d ' ')" -ge 3 ] && echo ok && exit 0; exit 1`
	e := shellExec(t, Options{}, script)

	stdout, _, status := e.Run(context.Background(), []string{"api-versions"}, RunOptions{Attempts: 5})

	assert.True(t, status.Success)
	assert.Equal(t, "ok\n", stdout)
}

func TestExecRunMissingBinary(t *testing.T) {
	e := NewExec(Options{Path: filepath.Join(t.TempDir(), "no-such-kubectl")})
	e.opts.Backoff = wait.Backoff{Duration: time.Millisecond, Factor: 1}

	_, _, status := e.Run(context.Background(), []string{"api-versions"}, RunOptions{Attempts: 2})

	assert.False(t, status.Success)
	assert.Equal(t, -1, status.ExitCode)
	assert.ErrorContains(t, status.Err, "failed to start kubectl")
}

func TestAttempts(t *testing.T) {
	assert.Equal(t, 1, attempts(0))
	assert.Equal(t, 1, attempts(-2))
	assert.Equal(t, 5, attempts(5))
}
