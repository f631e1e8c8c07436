package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod     = "method"
	attrPath       = "path"
	attrStatus     = "status"
	attrOperation  = "operation"
	attrService    = "service"
	attrType       = "type"
	attrTier       = "tier"
	attrComponent  = "component"
	attrUserDomain = "user_domain"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// Cycle metrics
	cyclesTotal          metric.Int64Counter
	cycleDuration        metric.Float64Histogram
	emailsProcessedTotal metric.Int64Counter
	actionsTotal         metric.Int64Counter

	// Fleet metrics
	fleetRunsTotal metric.Int64Counter

	// Model metrics
	llmRequestsTotal   metric.Int64Counter
	llmRequestDuration metric.Float64Histogram

	// Persistence metrics
	persistenceFallbacksTotal metric.Int64Counter

	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// HTTP metrics (status/metrics server)
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Configuration
	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// Cycle Metrics
	m.cyclesTotal, err = meter.Int64Counter(
		"agent_cycles_total",
		metric.WithDescription("Total number of agent cycles run"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_cycles_total counter: %w", err)
	}

	m.cycleDuration, err = meter.Float64Histogram(
		"agent_cycle_duration_seconds",
		metric.WithDescription("Agent cycle duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0, 300.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_cycle_duration_seconds histogram: %w", err)
	}

	m.emailsProcessedTotal, err = meter.Int64Counter(
		"agent_emails_processed_total",
		metric.WithDescription("Total number of emails processed across all cycles"),
		metric.WithUnit("{email}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_emails_processed_total counter: %w", err)
	}

	m.actionsTotal, err = meter.Int64Counter(
		"agent_actions_total",
		metric.WithDescription("Total number of per-email actions dispatched"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_actions_total counter: %w", err)
	}

	// Fleet Metrics
	m.fleetRunsTotal, err = meter.Int64Counter(
		"agent_fleet_runs_total",
		metric.WithDescription("Total number of fleet runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_fleet_runs_total counter: %w", err)
	}

	// Model Metrics
	m.llmRequestsTotal, err = meter.Int64Counter(
		"llm_requests_total",
		metric.WithDescription("Total number of model requests by tier"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm_requests_total counter: %w", err)
	}

	m.llmRequestDuration, err = meter.Float64Histogram(
		"llm_request_duration_seconds",
		metric.WithDescription("Model request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm_request_duration_seconds histogram: %w", err)
	}

	// Persistence Metrics
	m.persistenceFallbacksTotal, err = meter.Int64Counter(
		"persistence_fallbacks_total",
		metric.WithDescription("Times the primary store was unreachable and the file fallback was used"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create persistence_fallbacks_total counter: %w", err)
	}

	// Google API Metrics
	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordCycle records one completed agent cycle.
//
// Parameters:
//   - status: Cycle outcome ("ok", "not_found", "skipped", "failed")
//   - emails: Number of emails processed in the cycle
//   - duration: Wall time of the cycle
func (m *Metrics) RecordCycle(ctx context.Context, status string, emails int, duration time.Duration) {
	if m == nil || m.cyclesTotal == nil || m.cycleDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
	}

	m.cyclesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.cycleDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if emails > 0 {
		m.emailsProcessedTotal.Add(ctx, int64(emails))
	}
}

// RecordAction records one dispatched per-email action.
// actionType should be one of: "labeled", "task_created", "draft_created".
func (m *Metrics) RecordAction(ctx context.Context, actionType string) {
	if m == nil || m.actionsTotal == nil {
		return // Instrumentation not initialized
	}

	m.actionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrType, actionType),
	))
}

// RecordFleetRun records one completed fleet run.
// status should be "ok" when no user cycle failed, "degraded" otherwise.
func (m *Metrics) RecordFleetRun(ctx context.Context, status string) {
	if m == nil || m.fleetRunsTotal == nil {
		return // Instrumentation not initialized
	}

	m.fleetRunsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrStatus, status),
	))
}

// RecordLLMRequest records one model request with tier, status, and duration.
//
// Parameters:
//   - tier: Model tier ("fast" or "deep")
//   - status: Result status ("ok" or "error")
//   - duration: Time taken for the request
func (m *Metrics) RecordLLMRequest(ctx context.Context, tier, status string, duration time.Duration) {
	if m == nil || m.llmRequestsTotal == nil || m.llmRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTier, tier),
		attribute.String(attrStatus, status),
	}

	m.llmRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.llmRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordPersistenceFallback records one degraded store operation.
// component names the store that fell back ("state" or "audit").
func (m *Metrics) RecordPersistenceFallback(ctx context.Context, component string) {
	if m == nil || m.persistenceFallbacksTotal == nil {
		return // Instrumentation not initialized
	}

	m.persistenceFallbacksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrComponent, component),
	))
}

// RecordGoogleAPIOperation records a Google API operation with service, operation,
// status, and duration. The account is reduced to its domain and only
// attached when detailed labels are enabled, to keep cardinality bounded.
//
// Parameters:
//   - service: Google service name (gmail, tasks, people)
//   - operation: Operation type (list, get, create, update, delete, send, etc.)
//   - account: Email account the call was made for (may be empty)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, account, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels {
		attrs = append(attrs, attribute.String(attrUserDomain, ExtractUserDomain(account)))
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
