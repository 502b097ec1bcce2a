package kubectl

import "context"

// DefaultAttempts is the retry budget used for discovery commands.
const DefaultAttempts = 5

// Output modes understood by runners.
const (
	OutputWide = "wide"
)

// Runner executes a cluster CLI command and reports its raw output.
//
// Implementations never return transport errors separately: a failed or
// exhausted command is reported through Status. Callers decide whether a
// failure is fatal.
type Runner interface {
	Run(ctx context.Context, args []string, opts RunOptions) (stdout, stderr string, status Status)
}

// RunOptions controls a single Run call.
type RunOptions struct {
	// Attempts is the total number of tries. Values below 1 mean one try.
	Attempts int

	// UseNamespace adds the runner's namespace to the command line.
	UseNamespace bool

	// Output selects an output mode, e.g. OutputWide. Empty means the default.
	Output string
}

// Status is the outcome of a Run call.
type Status struct {
	// Success is true when the command exited zero.
	Success bool

	// ExitCode is the exit code of the last attempt, or -1 if the command
	// could not be started.
	ExitCode int

	// Err holds the error of the last attempt, if any.
	Err error
}

// Succeeded reports a successful outcome.
func Succeeded() Status {
	return Status{Success: true}
}

// Failed reports a failed outcome caused by err.
func Failed(exitCode int, err error) Status {
	return Status{ExitCode: exitCode, Err: err}
}

func attempts(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
