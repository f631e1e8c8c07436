// Package instrumentation provides OpenTelemetry instrumentation for
// the inboxpilot agent.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for agent cycles, LLM requests, and Google API calls
//   - Distributed tracing for cycle runs and API calls
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Agent Metrics:
//   - agent_cycles_total: Counter of processing cycles by status
//   - agent_cycle_duration_seconds: Histogram of cycle durations
//   - agent_emails_processed_total: Counter of emails processed
//   - agent_actions_total: Counter of actions taken by type (labeled, task_created, draft_created)
//   - agent_fleet_runs_total: Counter of fleet runs by status
//
// LLM Metrics:
//   - llm_requests_total: Counter of model requests by tier and status
//   - llm_request_duration_seconds: Histogram of model request durations
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// Persistence Metrics:
//   - persistence_fallbacks_total: Counter of Postgres-to-file fallbacks by component
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - Agent cycles (agent.cycle)
//   - Google API calls (google.<service>.<operation>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: inboxpilot)
//   - METRICS_DETAILED_LABELS: Include user-domain labels (default: false)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "inboxpilot",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record a cycle
//	recorder.RecordCycle(ctx, "ok", 12, time.Since(start))
//
//	// Record a Google API operation
//	recorder.RecordGoogleAPIOperation(ctx, "gmail", "list", account, "success", time.Since(start))
package instrumentation
