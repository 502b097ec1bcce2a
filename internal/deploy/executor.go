package deploy

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/giantswarm/kdeploy/internal/discovery"
	"github.com/giantswarm/kdeploy/internal/instrumentation"
	"github.com/giantswarm/kdeploy/internal/kubectl"
	"github.com/giantswarm/kdeploy/internal/logging"
	"github.com/giantswarm/kdeploy/internal/task"
)

// Result describes a finished deploy.
type Result struct {
	Scope string
	// Pruned reports whether pruning was requested from the applier.
	Pruned         bool
	PruneWhitelist []discovery.PrunableResourceID
	Output         string
}

// NamespaceChecker reports whether a namespace exists.
type NamespaceChecker interface {
	NamespaceExists(ctx context.Context, name string) (bool, error)
}

// Option configures a deploy task.
type Option func(*executor)

// WithApplier sets the applier. The default runs kubectl against the
// task's context.
func WithApplier(a Applier) Option {
	return func(e *executor) {
		e.applier = a
	}
}

// WithNamespaceChecker makes namespaced deploys verify their namespace
// before applying.
func WithNamespaceChecker(c NamespaceChecker) Option {
	return func(e *executor) {
		e.checker = c
	}
}

// WithMetrics records deploy metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(e *executor) {
		e.metrics = m
	}
}

// executor is the deploy machinery shared by DeployTask and
// GlobalDeployTask. The scope-specific parts are passed in by the caller.
type executor struct {
	cfg     *task.Config
	scope   string
	applier Applier
	checker NamespaceChecker
	metrics *instrumentation.Metrics
}

func newExecutor(cfg *task.Config, scope string, opts []Option) executor {
	e := executor{cfg: cfg, scope: scope}
	for _, opt := range opts {
		opt(&e)
	}
	if e.applier == nil {
		e.applier = NewKubectlApplier(kubectl.NewExec(kubectl.Options{
			Context: cfg.Context(),
			Logger:  cfg.Logger(),
		}))
	}
	return e
}

const operationApply = "apply"

// plan is the scope-specific input to run.
type plan struct {
	request    ApplyRequest
	whitelist  func(context.Context) []discovery.PrunableResourceID
	knownKinds func(context.Context) []string
}

func (e *executor) run(ctx context.Context, p plan) (result *Result, err error) {
	start := time.Now()
	logger := e.cfg.Logger()

	ctx, span := instrumentation.StartDeploySpan(ctx, e.scope, e.cfg.Context(), p.request.Namespace)
	defer func() {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		span.End()
		e.metrics.RecordDeploy(ctx, e.scope, status, time.Since(start))
	}()

	req := p.request
	if req.Prune {
		req.PruneWhitelist = p.whitelist(ctx)
		if len(req.PruneWhitelist) == 0 {
			logger.Warn("prune whitelist is empty, deploying without pruning", logging.Scope(e.scope))
			req.Prune = false
		}
	}
	req.KnownKinds = p.knownKinds(ctx)
	span.SetAttributes(attribute.Int(instrumentation.SpanAttrCount, len(req.PruneWhitelist)))

	logger.Info("applying manifests",
		logging.Operation(operationApply),
		logging.Scope(e.scope),
		"paths", len(req.Paths),
		"prune", req.Prune,
		"prune_kinds", len(req.PruneWhitelist),
		"known_kinds", len(req.KnownKinds),
		"dry_run", req.DryRun)

	out, err := e.applier.Apply(ctx, req)
	if err != nil {
		logger.Error("deploy failed",
			logging.Operation(operationApply),
			logging.Scope(e.scope),
			logging.Duration(time.Since(start)),
			logging.SanitizedErr(err))
		return nil, err
	}

	logger.Info("deploy succeeded",
		logging.Operation(operationApply),
		logging.Scope(e.scope),
		logging.Duration(time.Since(start)),
		logging.Status(instrumentation.StatusSuccess))
	return &Result{
		Scope:          e.scope,
		Pruned:         req.Prune,
		PruneWhitelist: req.PruneWhitelist,
		Output:         out,
	}, nil
}
