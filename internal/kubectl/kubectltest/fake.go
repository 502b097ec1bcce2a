// Package kubectltest provides a scripted kubectl.Runner for tests.
package kubectltest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/giantswarm/kdeploy/internal/kubectl"
)

// Response is the scripted result of a command.
type Response struct {
	Stdout  string
	Stderr  string
	Success bool
}

// Call records one Run invocation.
type Call struct {
	Args []string
	Opts kubectl.RunOptions
}

// Fake is a kubectl.Runner that answers registered commands and records
// every call. Commands are matched on their space-joined arguments.
// Unregistered commands fail.
type Fake struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []Call
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{responses: map[string]Response{}}
}

// On registers resp for the command given by args.
func (f *Fake) On(resp Response, args ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[strings.Join(args, " ")] = resp
	return f
}

// Run implements kubectl.Runner.
func (f *Fake) Run(_ context.Context, args []string, opts kubectl.RunOptions) (string, string, kubectl.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Args: append([]string(nil), args...), Opts: opts})

	resp, ok := f.responses[strings.Join(args, " ")]
	if !ok {
		return "", "unexpected command", kubectl.Failed(1, fmt.Errorf("unexpected command %q", strings.Join(args, " ")))
	}
	if !resp.Success {
		return resp.Stdout, resp.Stderr, kubectl.Failed(1, fmt.Errorf("command %q failed", strings.Join(args, " ")))
	}
	return resp.Stdout, resp.Stderr, kubectl.Succeeded()
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns the number of recorded calls.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// CallsTo counts calls whose first argument is command.
func (f *Fake) CallsTo(command string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c.Args) > 0 && c.Args[0] == command {
			n++
		}
	}
	return n
}
