package deploy

import (
	"context"

	"github.com/giantswarm/kdeploy/internal/discovery"
	"github.com/giantswarm/kdeploy/internal/instrumentation"
	"github.com/giantswarm/kdeploy/internal/task"
)

// GlobalDeployOptions configures a global deploy.
type GlobalDeployOptions struct {
	Paths []string
	// Selector is required so pruning only touches resources owned by this
	// deploy.
	Selector string
	Prune    bool
	DryRun   bool
}

// GlobalDeployTask deploys cluster-scoped manifests. It can only ever prune
// global kinds.
type GlobalDeployTask struct {
	exec executor
	opts GlobalDeployOptions
}

// NewGlobalDeployTask validates opts and creates a global deploy.
func NewGlobalDeployTask(cfg *task.Config, opts GlobalDeployOptions, taskOpts ...Option) (*GlobalDeployTask, error) {
	if opts.Selector == "" {
		return nil, configurationError(ErrSelectorRequired, "GlobalDeployTask requires a selector")
	}
	if len(opts.Paths) == 0 {
		return nil, configurationError(ErrNoManifests, "no manifest paths given")
	}
	return &GlobalDeployTask{
		exec: newExecutor(cfg, instrumentation.ScopeGlobal, taskOpts),
		opts: opts,
	}, nil
}

// PruneWhitelist returns the cluster-scoped kinds this deploy may prune.
func (t *GlobalDeployTask) PruneWhitelist(ctx context.Context) []discovery.PrunableResourceID {
	return t.exec.cfg.WhitelistBuilder().PrunableResources(ctx, false)
}

// Run applies the manifests cluster-wide.
func (t *GlobalDeployTask) Run(ctx context.Context) (*Result, error) {
	return t.exec.run(ctx, plan{
		request: ApplyRequest{
			Paths:    t.opts.Paths,
			Selector: t.opts.Selector,
			Prune:    t.opts.Prune,
			DryRun:   t.opts.DryRun,
		},
		whitelist:  t.PruneWhitelist,
		knownKinds: t.exec.cfg.GlobalKinds,
	})
}
