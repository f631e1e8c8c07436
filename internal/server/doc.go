// Package server provides the operational HTTP surface of the
// inboxpilot agent.
//
// # Key Components
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolated
// from any user-facing traffic. It also carries the Kubernetes health
// probes and the agent status endpoint:
//   - /metrics: Prometheus scrape endpoint
//   - /healthz: liveness probe
//   - /readyz: readiness probe, fails during shutdown
//   - /healthz/detailed: uptime and overall status
//   - /status: outcome of the most recent fleet run
//
// HealthChecker tracks readiness and shutdown state. StatusHandler
// reads the latest fleet entry from the audit log.
package server
