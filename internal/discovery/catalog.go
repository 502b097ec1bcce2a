package discovery

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/giantswarm/kdeploy/internal/instrumentation"
	"github.com/giantswarm/kdeploy/internal/kubectl"
	"github.com/giantswarm/kdeploy/internal/logging"
)

// Discovery commands issued through the runner.
const (
	commandAPIResources = "api-resources"
	commandAPIVersions  = "api-versions"
)

// Catalog lists the resource kinds a cluster currently serves.
//
// Discovery failures never surface as errors: a failed call yields an empty
// result, which downstream means "nothing is prunable".
type Catalog struct {
	runner   kubectl.Runner
	logger   logging.Logger
	attempts int
	metrics  *instrumentation.Metrics
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithAttempts overrides the retry budget of discovery calls.
func WithAttempts(n int) CatalogOption {
	return func(c *Catalog) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithMetrics records discovery calls into m.
func WithMetrics(m *instrumentation.Metrics) CatalogOption {
	return func(c *Catalog) {
		c.metrics = m
	}
}

// NewCatalog creates a Catalog issuing discovery calls through runner.
func NewCatalog(runner kubectl.Runner, logger logging.Logger, opts ...CatalogOption) *Catalog {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	c := &Catalog{
		runner:   runner,
		logger:   logger,
		attempts: kubectl.DefaultAttempts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchResources returns the kinds matching filter, or nothing if the
// discovery call fails.
func (c *Catalog) FetchResources(ctx context.Context, filter Filter) []ResourceKindInfo {
	raw, ok := c.run(ctx, commandAPIResources, filter.args(), kubectl.OutputWide)
	if !ok {
		return nil
	}

	resources, skipped, err := parseResourceTable(raw)
	if err != nil {
		c.logger.Warn("unrecognized resource discovery output",
			logging.Scope(filter.String()), logging.Err(err))
		return nil
	}
	if skipped > 0 {
		c.logger.Debug("skipped malformed resource discovery lines",
			logging.Scope(filter.String()), logging.Count(skipped))
	}

	return resources
}

// GlobalResourceKinds returns the kind names of cluster-scoped resources.
func (c *Catalog) GlobalResourceKinds(ctx context.Context) []string {
	return KindNames(c.FetchResources(ctx, FilterGlobal))
}

// NamespacedResourceKinds returns the kind names of namespaced resources.
func (c *Catalog) NamespacedResourceKinds(ctx context.Context) []string {
	return KindNames(c.FetchResources(ctx, FilterNamespaced))
}

// FetchAPIVersions returns the group/version table, or an empty table if
// the discovery call fails.
func (c *Catalog) FetchAPIVersions(ctx context.Context) VersionTable {
	raw, ok := c.run(ctx, commandAPIVersions, []string{commandAPIVersions}, "")
	if !ok {
		return VersionTable{}
	}
	return ParseVersionTable(raw)
}

func (c *Catalog) run(ctx context.Context, command string, args []string, output string) (string, bool) {
	ctx, span := instrumentation.StartDiscoverySpan(ctx, command,
		attribute.Int(instrumentation.SpanAttrAttempts, c.attempts))
	defer span.End()

	start := time.Now()
	stdout, stderr, status := c.runner.Run(ctx, args, kubectl.RunOptions{
		Attempts:     c.attempts,
		UseNamespace: false,
		Output:       output,
	})
	c.metrics.RecordDiscovery(ctx, command, status.Success, time.Since(start))

	if !status.Success {
		instrumentation.SetSpanError(span, status.Err)
		c.logger.Warn("cluster discovery failed, assuming nothing is prunable",
			logging.Command(args),
			logging.SanitizedErr(status.Err),
			"stderr", logging.SanitizeHost(stderr))
		return "", false
	}

	instrumentation.SetSpanSuccess(span)
	return stdout, true
}
