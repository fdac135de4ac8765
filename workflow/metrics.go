package workflow

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics provides Prometheus-compatible metrics collection for
// the consumer and output processor in production environments.
//
// Metrics exposed (all namespaced with "workflow_"):
//
//  1. pending_commands (gauge): current count of unprocessed output
//     commands across all instances.
//  2. consumer_cycle_latency_ms (histogram): duration of one decider cycle,
//     labeled by workflow_id.
//  3. consumer_cycles_total (counter): cumulative decider cycles run,
//     labeled by workflow_id.
//  4. mark_contention_total (counter): MarkCommandProcessedAsync calls that
//     lost the race (returned false because another worker already
//     claimed the command).
//  5. handler_retries_total (counter): cumulative output handler retries,
//     labeled by message_type.
//  6. sweeps_total (counter): periodic sweep invocations.
//
// Thread-safe: all methods use atomic operations internal to the
// prometheus client library.
type PrometheusMetrics struct {
	pendingCommands    prometheus.Gauge
	cycleLatency       *prometheus.HistogramVec
	cyclesTotal        *prometheus.CounterVec
	markContention     prometheus.Counter
	handlerRetries     *prometheus.CounterVec
	sweepsTotal         prometheus.Counter

	registry prometheus.Registerer
	mu       sync.RWMutex
	enabled  bool
}

// NewPrometheusMetrics creates and registers all workflow engine metrics
// with registry. Pass prometheus.DefaultRegisterer for the global registry.
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(registry)

	return &PrometheusMetrics{
		pendingCommands: factory.NewGauge(prometheus.GaugeOpts{
			Name: "workflow_pending_commands",
			Help: "Current count of unprocessed output commands across all instances.",
		}),
		cycleLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workflow_consumer_cycle_latency_ms",
			Help:    "Duration of one decider cycle in milliseconds.",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		}, []string{"workflow_id"}),
		cyclesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_consumer_cycles_total",
			Help: "Cumulative decider cycles run.",
		}, []string{"workflow_id"}),
		markContention: factory.NewCounter(prometheus.CounterOpts{
			Name: "workflow_mark_contention_total",
			Help: "MarkCommandProcessedAsync calls that lost the race to another worker.",
		}),
		handlerRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_handler_retries_total",
			Help: "Cumulative output handler retries.",
		}, []string{"message_type"}),
		sweepsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "workflow_sweeps_total",
			Help: "Periodic sweep invocations.",
		}),
		registry: registry,
		enabled:  true,
	}
}

// SetPendingCommands records the current pending-command backlog size.
func (m *PrometheusMetrics) SetPendingCommands(n int) {
	if m == nil || !m.enabled {
		return
	}
	m.pendingCommands.Set(float64(n))
}

// ObserveCycle records one decider cycle's latency for workflowId.
func (m *PrometheusMetrics) ObserveCycle(workflowId string, latencyMs float64) {
	if m == nil || !m.enabled {
		return
	}
	m.cycleLatency.WithLabelValues(workflowId).Observe(latencyMs)
	m.cyclesTotal.WithLabelValues(workflowId).Inc()
}

// IncMarkContention records a lost MarkCommandProcessedAsync race.
func (m *PrometheusMetrics) IncMarkContention() {
	if m == nil || !m.enabled {
		return
	}
	m.markContention.Inc()
}

// IncHandlerRetry records a retried output handler invocation for
// messageType.
func (m *PrometheusMetrics) IncHandlerRetry(messageType string) {
	if m == nil || !m.enabled {
		return
	}
	m.handlerRetries.WithLabelValues(messageType).Inc()
}

// IncSweep records a periodic sweep invocation.
func (m *PrometheusMetrics) IncSweep() {
	if m == nil || !m.enabled {
		return
	}
	m.sweepsTotal.Inc()
}
