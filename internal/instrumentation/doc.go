// Package instrumentation provides OpenTelemetry metrics and tracing for kdeploy.
//
// # Metrics
//
//   - kdeploy_discovery_calls_total: discovery commands by command and status
//   - kdeploy_discovery_duration_seconds: discovery duration, retries included
//   - kdeploy_prune_whitelist_size: number of prunable kinds by scope
//   - kdeploy_deploys_total / kdeploy_deploy_duration_seconds: deploy runs by scope and status
//
// # Tracing
//
// Spans are created for every discovery command (discovery.<command>) and for
// each deploy run (deploy.namespaced, deploy.global).
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 1.0)
//   - OTEL_SERVICE_NAME: Service name (default: kdeploy)
//
// kdeploy is a short-lived CLI, so the prometheus exporter is not served over
// HTTP. Use Provider.WriteTextfile to leave the final values for a textfile
// collector.
package instrumentation
