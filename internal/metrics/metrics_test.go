package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRunStartedIncrementsCounter(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RunStarted("a1")
	m.RunStarted("a1")
	m.RunStarted("a2")

	require.Equal(t, float64(2), testutil.ToFloat64(m.RunsStarted.WithLabelValues("a1")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.RunsStarted.WithLabelValues("a2")))
}

func TestRunFinishedRecordsDurationAndOutcome(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RunFinished("a1", "done", 1.5)
	m.RunFinished("a1", "interrupted", 0.2)

	require.Equal(t, float64(1), testutil.ToFloat64(m.RunOutcomes.WithLabelValues("a1", "done")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.RunOutcomes.WithLabelValues("a1", "interrupted")))
	require.Equal(t, 2, testutil.CollectAndCount(m.RunDuration))
}

func TestActiveSessionsGaugeTracksSetValue(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.SetActiveSessions("a1", 3)
	require.Equal(t, float64(3), testutil.ToFloat64(m.ActiveSessions.WithLabelValues("a1")))

	m.SetActiveSessions("a1", 1)
	require.Equal(t, float64(1), testutil.ToFloat64(m.ActiveSessions.WithLabelValues("a1")))
}

func TestStreamOpenedAndClosedAdjustGauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.StreamOpened("a1")
	m.StreamOpened("a1")
	m.StreamClosed("a1")

	require.Equal(t, float64(1), testutil.ToFloat64(m.StreamConnections.WithLabelValues("a1")))
}

func TestSinkWriteRecordsCounterAndFallbackGauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.SinkWrite("event", "ok", 0)
	m.SinkWrite("event", "fallback", 3)

	require.Equal(t, float64(1), testutil.ToFloat64(m.SinkWrites.WithLabelValues("event", "ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.SinkWrites.WithLabelValues("event", "fallback")))
	require.Equal(t, float64(3), testutil.ToFloat64(m.SinkFallbackDepth))
}

func TestToolExecutedRecordsCounterAndDuration(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.ToolExecuted("fs.read", "success", 0.05)

	require.Equal(t, float64(1), testutil.ToFloat64(m.ToolExecutions.WithLabelValues("fs.read", "success")))
	require.Equal(t, 1, testutil.CollectAndCount(m.ToolExecutionDuration))
}
