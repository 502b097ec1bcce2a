package kubectl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/giantswarm/kdeploy/internal/logging"
)

// DefaultRequestTimeout bounds every API request kubectl issues.
const DefaultRequestTimeout = 30 * time.Second

// waitDelay bounds how long a cancelled kubectl may keep its output pipes
// open, e.g. through a child process it spawned.
const waitDelay = 2 * time.Second

// Options configures an Exec runner.
type Options struct {
	// Path is the kubectl binary. Defaults to "kubectl" on PATH.
	Path string

	// Context is the kubeconfig context passed as --context.
	Context string

	// Namespace is passed as --namespace when RunOptions.UseNamespace is set.
	Namespace string

	// Kubeconfig is an optional explicit kubeconfig path.
	Kubeconfig string

	// RequestTimeout is passed as --request-timeout.
	RequestTimeout time.Duration

	// Backoff is the delay policy between attempts. Steps is ignored; the
	// attempt count comes from RunOptions.Attempts.
	Backoff wait.Backoff

	Logger logging.Logger
}

// Exec runs kubectl as a subprocess.
type Exec struct {
	opts       Options
	newCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewExec creates a kubectl runner.
func NewExec(opts Options) *Exec {
	if opts.Path == "" {
		opts.Path = "kubectl"
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.Backoff.Duration == 0 {
		opts.Backoff = wait.Backoff{Duration: time.Second, Factor: 2, Jitter: 0.1, Cap: 15 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = logging.DefaultLogger()
	}
	return &Exec{opts: opts, newCommand: exec.CommandContext}
}

// Args returns the full argument list for a command, including the global
// flags derived from the runner options.
func (e *Exec) Args(args []string, opts RunOptions) []string {
	full := make([]string, 0, len(args)+6)
	full = append(full, args...)
	if e.opts.Context != "" {
		full = append(full, "--context="+e.opts.Context)
	}
	if e.opts.Kubeconfig != "" {
		full = append(full, "--kubeconfig="+e.opts.Kubeconfig)
	}
	if opts.UseNamespace && e.opts.Namespace != "" {
		full = append(full, "--namespace="+e.opts.Namespace)
	}
	if opts.Output != "" {
		full = append(full, "--output="+opts.Output)
	}
	full = append(full, "--request-timeout="+e.opts.RequestTimeout.String())
	return full
}

// Run executes kubectl, retrying failed attempts with backoff.
func (e *Exec) Run(ctx context.Context, args []string, opts RunOptions) (string, string, Status) {
	full := e.Args(args, opts)

	var (
		stdout, stderr string
		status         Status
	)

	made, err := Retry(ctx, e.opts.Backoff, opts.Attempts, func(attempt int) bool {
		stdout, stderr, status = e.runOnce(ctx, full)
		if status.Success {
			return true
		}
		e.opts.Logger.Debug("kubectl command failed",
			logging.Command(full),
			logging.Attempt(attempt),
			logging.SanitizedErr(status.Err),
			"stderr", logging.SanitizeHost(stderr))
		return false
	})
	if err != nil {
		e.opts.Logger.Warn("kubectl command gave up",
			logging.Command(full),
			"attempts", made,
			logging.SanitizedErr(status.Err))
		if status.Err == nil {
			status.Err = err
		}
	}

	return stdout, stderr, status
}

func (e *Exec) runOnce(ctx context.Context, args []string) (string, string, Status) {
	var stdout, stderr bytes.Buffer
	cmd := e.newCommand(ctx, e.opts.Path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), stderr.String(), Failed(exitErr.ExitCode(), fmt.Errorf("kubectl %s: %w", args[0], err))
		}
		return stdout.String(), stderr.String(), Failed(-1, fmt.Errorf("failed to start kubectl: %w", err))
	}
	return stdout.String(), stderr.String(), Succeeded()
}
