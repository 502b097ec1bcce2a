package deploy

import (
	"context"
	"fmt"
	"strings"

	"github.com/giantswarm/kdeploy/internal/discovery"
	"github.com/giantswarm/kdeploy/internal/kubectl"
)

// ApplyRequest is everything an Applier needs to converge a set of
// manifests.
type ApplyRequest struct {
	Paths []string
	// Namespace is empty for global deploys.
	Namespace string
	Selector  string
	Prune     bool
	// PruneWhitelist limits pruning to these resource kinds. It is only
	// meaningful when Prune is set.
	PruneWhitelist []discovery.PrunableResourceID
	// KnownKinds are the kinds the cluster serves in the deploy's scope.
	KnownKinds []string
	DryRun     bool
}

// Applier applies manifests to a cluster.
type Applier interface {
	Apply(ctx context.Context, req ApplyRequest) (string, error)
}

// KubectlApplier applies manifests with `kubectl apply`.
type KubectlApplier struct {
	runner kubectl.Runner
}

// NewKubectlApplier creates an applier that runs kubectl through runner.
func NewKubectlApplier(runner kubectl.Runner) *KubectlApplier {
	return &KubectlApplier{runner: runner}
}

// Args builds the kubectl arguments for req.
func (a *KubectlApplier) Args(req ApplyRequest) []string {
	args := []string{"apply"}
	for _, p := range req.Paths {
		args = append(args, "-f", p)
	}
	if req.Namespace != "" {
		args = append(args, "--namespace="+req.Namespace)
	}
	if req.Selector != "" {
		args = append(args, "--selector="+req.Selector)
	}
	if req.Prune {
		args = append(args, "--prune")
		if req.Selector == "" {
			args = append(args, "--all")
		}
		for _, id := range req.PruneWhitelist {
			args = append(args, "--prune-allowlist="+id.String())
		}
	}
	if req.DryRun {
		args = append(args, "--dry-run=server")
	}
	return args
}

// Apply implements Applier. Apply is not retried.
func (a *KubectlApplier) Apply(ctx context.Context, req ApplyRequest) (string, error) {
	stdout, stderr, status := a.runner.Run(ctx, a.Args(req), kubectl.RunOptions{Attempts: 1})
	if !status.Success {
		return stdout, fmt.Errorf("kubectl apply failed: %s: %w", strings.TrimSpace(stderr), status.Err)
	}
	return stdout, nil
}
