package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// =============================================================================
// Prometheus Hooks
// =============================================================================

// Metrics is an EditorHooks implementation that records Prometheus metrics
// on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	commits        *prometheus.CounterVec
	undos          prometheus.Counter
	redos          prometheus.Counter
	layouts        *prometheus.CounterVec
	layoutDuration prometheus.Histogram
	corrections    prometheus.Counter
	rejected       *prometheus.CounterVec
	nodes          prometheus.Gauge
	edges          prometheus.Gauge
}

var _ EditorHooks = (*Metrics)(nil)

// NewMetrics creates metrics under the given namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_commits_total",
			Help:      "Snapshots committed to the undo history, by reason.",
		}, []string{"reason"}),
		undos: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_undo_total",
			Help:      "Undo operations applied.",
		}),
		redos: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_redo_total",
			Help:      "Redo operations applied.",
		}),
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Auto-arrange operations, by result.",
		}, []string{"result"}),
		layoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_settle_seconds",
			Help:      "Time from auto-arrange to settle.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5},
		}),
		corrections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bounds_corrections_total",
			Help:      "Nodes clamped back into the visible region.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_total",
			Help:      "Requests absorbed as no-ops, by event.",
		}, []string{"event"}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes in the last committed or restored graph.",
		}),
		edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Edges in the last committed or restored graph.",
		}),
	}
	m.registry.MustRegister(
		m.commits, m.undos, m.redos, m.layouts, m.layoutDuration,
		m.corrections, m.rejected, m.nodes, m.edges,
	)
	return m
}

// Registry returns the registry holding the editor metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OnCommit(reason string, nodeCount, edgeCount int) {
	m.commits.WithLabelValues(reason).Inc()
	m.setSize(nodeCount, edgeCount)
}

func (m *Metrics) OnUndo(nodeCount, edgeCount int) {
	m.undos.Inc()
	m.setSize(nodeCount, edgeCount)
}

func (m *Metrics) OnRedo(nodeCount, edgeCount int) {
	m.redos.Inc()
	m.setSize(nodeCount, edgeCount)
}

func (m *Metrics) OnLayoutStart(string, int) {
	m.layouts.WithLabelValues("started").Inc()
}

func (m *Metrics) OnLayoutComplete(_ string, _ int, d time.Duration) {
	m.layouts.WithLabelValues("settled").Inc()
	m.layoutDuration.Observe(d.Seconds())
}

func (m *Metrics) OnLayoutCancelled(string, string) {
	m.layouts.WithLabelValues("cancelled").Inc()
}

func (m *Metrics) OnBoundsCorrected(corrected int) {
	m.corrections.Add(float64(corrected))
}

func (m *Metrics) OnRejected(event, _ string) {
	m.rejected.WithLabelValues(event).Inc()
}

func (m *Metrics) setSize(nodeCount, edgeCount int) {
	m.nodes.Set(float64(nodeCount))
	m.edges.Set(float64(edgeCount))
}
