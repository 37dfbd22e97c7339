// Package metrics defines the core's Prometheus instrumentation,
// grounded in the teacher's internal/observability.Metrics
// (promauto-built CounterVec/HistogramVec/GaugeVec fields with small
// Record*/label-value wrapper methods). Unlike the teacher, New takes
// an explicit *prometheus.Registry rather than registering against
// the global default, so tests can create isolated registries the
// way the teacher's own metrics_test.go does.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every counter, histogram, and gauge the core exposes.
type Metrics struct {
	// RunsStarted counts PostMessage runs by agent.
	RunsStarted *prometheus.CounterVec

	// RunDuration measures PostMessage wall time in seconds.
	RunDuration *prometheus.HistogramVec

	// RunOutcomes counts run completions by terminal stage
	// (done|interrupted).
	RunOutcomes *prometheus.CounterVec

	// ToolExecutions counts tool dispatches by tool ID and outcome.
	ToolExecutions *prometheus.CounterVec

	// ToolExecutionDuration measures tool dispatch latency in seconds.
	ToolExecutionDuration *prometheus.HistogramVec

	// ActiveSessions gauges sessions currently not Idle, by agent.
	ActiveSessions *prometheus.GaugeVec

	// StreamConnections gauges open SSE subscriptions, by agent.
	StreamConnections *prometheus.GaugeVec

	// EventLogAppends counts eventlog.Store.Append calls by outcome.
	EventLogAppends *prometheus.CounterVec

	// SinkWrites counts sink persistence attempts by record kind and
	// outcome (ok|fallback).
	SinkWrites *prometheus.CounterVec

	// SinkFallbackDepth gauges records currently buffered in the
	// sink's fallback ring.
	SinkFallbackDepth prometheus.Gauge
}

// New builds and registers every metric against registry.
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		RunsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentcore_runs_started_total",
				Help: "Total number of PostMessage runs started, by agent",
			},
			[]string{"agent_id"},
		),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentcore_run_duration_seconds",
				Help:    "Duration of PostMessage runs in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"agent_id"},
		),
		RunOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentcore_run_outcomes_total",
				Help: "Total number of PostMessage runs by terminal stage",
			},
			[]string{"agent_id", "stage"},
		),
		ToolExecutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentcore_tool_executions_total",
				Help: "Total number of tool dispatches by tool and outcome",
			},
			[]string{"tool_id", "status"},
		),
		ToolExecutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentcore_tool_execution_duration_seconds",
				Help:    "Duration of tool dispatches in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"tool_id"},
		),
		ActiveSessions: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "agentcore_active_sessions",
				Help: "Current number of non-idle sessions by agent",
			},
			[]string{"agent_id"},
		),
		StreamConnections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "agentcore_stream_connections",
				Help: "Current number of open SSE stream subscriptions by agent",
			},
			[]string{"agent_id"},
		),
		EventLogAppends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentcore_eventlog_appends_total",
				Help: "Total number of event log appends by outcome",
			},
			[]string{"status"},
		),
		SinkWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentcore_sink_writes_total",
				Help: "Total number of persistence sink writes by record kind and outcome",
			},
			[]string{"kind", "status"},
		),
		SinkFallbackDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "agentcore_sink_fallback_depth",
				Help: "Current number of records buffered in the sink's fallback ring",
			},
		),
	}
}

// RunStarted records the start of a PostMessage run.
func (m *Metrics) RunStarted(agentID string) {
	m.RunsStarted.WithLabelValues(agentID).Inc()
}

// RunFinished records a run's duration and terminal stage.
func (m *Metrics) RunFinished(agentID, stage string, durationSeconds float64) {
	m.RunDuration.WithLabelValues(agentID).Observe(durationSeconds)
	m.RunOutcomes.WithLabelValues(agentID, stage).Inc()
}

// ToolExecuted records a tool dispatch's outcome and latency.
func (m *Metrics) ToolExecuted(toolID, status string, durationSeconds float64) {
	m.ToolExecutions.WithLabelValues(toolID, status).Inc()
	m.ToolExecutionDuration.WithLabelValues(toolID).Observe(durationSeconds)
}

// SetActiveSessions sets the active-session gauge for agentID.
func (m *Metrics) SetActiveSessions(agentID string, count int) {
	m.ActiveSessions.WithLabelValues(agentID).Set(float64(count))
}

// StreamOpened increments the open-stream gauge for agentID.
func (m *Metrics) StreamOpened(agentID string) {
	m.StreamConnections.WithLabelValues(agentID).Inc()
}

// StreamClosed decrements the open-stream gauge for agentID.
func (m *Metrics) StreamClosed(agentID string) {
	m.StreamConnections.WithLabelValues(agentID).Dec()
}

// EventAppended records an eventlog append attempt.
func (m *Metrics) EventAppended(status string) {
	m.EventLogAppends.WithLabelValues(status).Inc()
}

// SinkWrite records a persistence attempt and the current fallback depth.
func (m *Metrics) SinkWrite(kind, status string, fallbackDepth int) {
	m.SinkWrites.WithLabelValues(kind, status).Inc()
	m.SinkFallbackDepth.Set(float64(fallbackDepth))
}
