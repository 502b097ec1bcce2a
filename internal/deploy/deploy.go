package deploy

import (
	"context"
	"fmt"
	"slices"

	"github.com/giantswarm/kdeploy/internal/discovery"
	"github.com/giantswarm/kdeploy/internal/instrumentation"
	"github.com/giantswarm/kdeploy/internal/logging"
	"github.com/giantswarm/kdeploy/internal/task"
)

// DefaultProtectedNamespaces may not be pruned without an explicit
// override.
var DefaultProtectedNamespaces = []string{"default", "kube-system", "kube-public"}

// DeployOptions configures a namespaced deploy.
type DeployOptions struct {
	Paths    []string
	Selector string
	Prune    bool
	DryRun   bool

	// AllowGlobals must be false. Deploys that manage cluster-scoped
	// resources use GlobalDeployTask.
	AllowGlobals bool

	// AllowProtectedNamespace permits deploying into a protected namespace.
	// Pruning is still disabled there.
	AllowProtectedNamespace bool

	// ProtectedNamespaces overrides DefaultProtectedNamespaces when non-nil.
	ProtectedNamespaces []string
}

// DeployTask deploys manifests into one namespace. It can only ever prune
// namespaced kinds.
type DeployTask struct {
	exec executor
	opts DeployOptions
}

// NewDeployTask validates opts and creates a namespaced deploy. Misuse is
// reported as a *ConfigurationError without touching the cluster.
func NewDeployTask(cfg *task.Config, opts DeployOptions, taskOpts ...Option) (*DeployTask, error) {
	if opts.AllowGlobals {
		return nil, configurationError(ErrGlobalsNotAllowed,
			"DeployTask cannot deploy global resources; use GlobalDeployTask (kdeploy global-deploy) instead")
	}
	if cfg.Namespace() == "" {
		return nil, configurationError(ErrNamespaceRequired, "DeployTask requires a namespace")
	}
	if len(opts.Paths) == 0 {
		return nil, configurationError(ErrNoManifests, "no manifest paths given")
	}

	protected := opts.ProtectedNamespaces
	if protected == nil {
		protected = DefaultProtectedNamespaces
	}
	if opts.Prune && slices.Contains(protected, cfg.Namespace()) {
		if !opts.AllowProtectedNamespace {
			return nil, configurationError(ErrProtectedNamespace,
				"refusing to prune protected namespace %q; disable pruning or allow protected namespaces", cfg.Namespace())
		}
		cfg.Logger().Warn("deploying to a protected namespace, pruning is disabled", logging.Namespace(cfg.Namespace()))
		opts.Prune = false
	}

	return &DeployTask{
		exec: newExecutor(cfg, instrumentation.ScopeNamespaced, taskOpts),
		opts: opts,
	}, nil
}

// PruneWhitelist returns the namespaced kinds this deploy may prune.
func (t *DeployTask) PruneWhitelist(ctx context.Context) []discovery.PrunableResourceID {
	return t.exec.cfg.WhitelistBuilder().PrunableResources(ctx, true)
}

// Run applies the manifests into the task's namespace.
func (t *DeployTask) Run(ctx context.Context) (*Result, error) {
	cfg := t.exec.cfg
	if t.exec.checker != nil {
		exists, err := t.exec.checker.NamespaceExists(ctx, cfg.Namespace())
		if err != nil {
			return nil, fmt.Errorf("failed to check namespace %q: %w", cfg.Namespace(), err)
		}
		if !exists {
			return nil, configurationError(ErrNamespaceNotFound,
				"namespace %q does not exist in context %q", cfg.Namespace(), cfg.Context())
		}
	}

	return t.exec.run(ctx, plan{
		request: ApplyRequest{
			Paths:     t.opts.Paths,
			Namespace: cfg.Namespace(),
			Selector:  t.opts.Selector,
			Prune:     t.opts.Prune,
			DryRun:    t.opts.DryRun,
		},
		whitelist:  t.PruneWhitelist,
		knownKinds: cfg.NamespacedKinds,
	})
}
