package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	attrCommand = "command"
	attrStatus  = "status"
	attrScope   = "scope"
)

// Metrics records discovery and deploy metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	discoveryCallsTotal metric.Int64Counter
	discoveryDuration   metric.Float64Histogram
	prunableResources   metric.Int64Histogram
	deploysTotal        metric.Int64Counter
	deployDuration      metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.discoveryCallsTotal, err = meter.Int64Counter(
		"kdeploy_discovery_calls_total",
		metric.WithDescription("Total number of cluster discovery calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kdeploy_discovery_calls_total counter: %w", err)
	}

	m.discoveryDuration, err = meter.Float64Histogram(
		"kdeploy_discovery_duration_seconds",
		metric.WithDescription("Cluster discovery call duration in seconds, retries included"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kdeploy_discovery_duration_seconds histogram: %w", err)
	}

	m.prunableResources, err = meter.Int64Histogram(
		"kdeploy_prune_whitelist_size",
		metric.WithDescription("Number of resource kinds eligible for pruning"),
		metric.WithUnit("{kind}"),
		metric.WithExplicitBucketBoundaries(0, 1, 10, 25, 50, 100, 250),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kdeploy_prune_whitelist_size histogram: %w", err)
	}

	m.deploysTotal, err = meter.Int64Counter(
		"kdeploy_deploys_total",
		metric.WithDescription("Total number of deploy runs"),
		metric.WithUnit("{deploy}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kdeploy_deploys_total counter: %w", err)
	}

	m.deployDuration, err = meter.Float64Histogram(
		"kdeploy_deploy_duration_seconds",
		metric.WithDescription("Deploy run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kdeploy_deploy_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordDiscovery records one discovery command, e.g. "api-resources".
func (m *Metrics) RecordDiscovery(ctx context.Context, command string, success bool, duration time.Duration) {
	if m == nil || m.discoveryCallsTotal == nil {
		return
	}

	status := StatusSuccess
	if !success {
		status = StatusError
	}
	attrs := metric.WithAttributes(
		attribute.String(attrCommand, command),
		attribute.String(attrStatus, status),
	)

	m.discoveryCallsTotal.Add(ctx, 1, attrs)
	m.discoveryDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordPruneWhitelist records the size of a computed prune whitelist.
func (m *Metrics) RecordPruneWhitelist(ctx context.Context, scope string, size int) {
	if m == nil || m.prunableResources == nil {
		return
	}
	m.prunableResources.Record(ctx, int64(size), metric.WithAttributes(attribute.String(attrScope, scope)))
}

// RecordDeploy records a finished deploy run.
func (m *Metrics) RecordDeploy(ctx context.Context, scope, status string, duration time.Duration) {
	if m == nil || m.deploysTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrScope, scope),
		attribute.String(attrStatus, status),
	)
	m.deploysTotal.Add(ctx, 1, attrs)
	m.deployDuration.Record(ctx, duration.Seconds(), attrs)
}
