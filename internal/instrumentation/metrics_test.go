package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return metrics, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewMetrics(t *testing.T) {
	metrics, _ := newTestMetrics(t)

	assert.NotNil(t, metrics.discoveryCallsTotal)
	assert.NotNil(t, metrics.discoveryDuration)
	assert.NotNil(t, metrics.prunableResources)
	assert.NotNil(t, metrics.deploysTotal)
	assert.NotNil(t, metrics.deployDuration)
}

func TestMetrics_RecordDiscovery(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	ctx := context.Background()

	metrics.RecordDiscovery(ctx, "api-resources", true, 200*time.Millisecond)
	metrics.RecordDiscovery(ctx, "api-resources", false, time.Second)
	metrics.RecordDiscovery(ctx, "api-versions", true, 10*time.Millisecond)

	got := collect(t, reader)
	require.Contains(t, got, "kdeploy_discovery_calls_total")

	sum, ok := got["kdeploy_discovery_calls_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)
	assert.Len(t, sum.DataPoints, 3)
	assert.Contains(t, got, "kdeploy_discovery_duration_seconds")
}

func TestMetrics_RecordPruneWhitelistAndDeploy(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	ctx := context.Background()

	metrics.RecordPruneWhitelist(ctx, ScopeGlobal, 13)
	metrics.RecordDeploy(ctx, ScopeNamespaced, StatusSuccess, 3*time.Second)

	got := collect(t, reader)
	assert.Contains(t, got, "kdeploy_prune_whitelist_size")
	assert.Contains(t, got, "kdeploy_deploys_total")
	assert.Contains(t, got, "kdeploy_deploy_duration_seconds")
}

func TestMetrics_NilSafe(t *testing.T) {
	var metrics *Metrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		metrics.RecordDiscovery(ctx, "api-versions", true, time.Second)
		metrics.RecordPruneWhitelist(ctx, ScopeGlobal, 1)
		metrics.RecordDeploy(ctx, ScopeGlobal, StatusError, time.Second)
	})
}
