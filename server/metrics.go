package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics of a Server, registered on their own registry so that several servers can
// live in one process
type Metrics struct {
	registry *prometheus.Registry

	FramesRendered   prometheus.Counter
	CrossingPolygons prometheus.Counter
	RenderDurationMs prometheus.Histogram
	ActiveSessions   prometheus.Gauge
	Messages         *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mercator_frames_rendered_total",
			Help: "Total number of rendered frames",
		}),
		CrossingPolygons: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mercator_crossing_polygons_total",
			Help: "Total number of rendered polygons crossing the antimeridian",
		}),
		RenderDurationMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mercator_render_duration_ms",
			Help:    "Duration of the calls that redraw the map, in milliseconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 50, 100},
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mercator_active_sessions",
			Help: "Number of open WebSocket sessions",
		}),
		Messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mercator_messages_total",
			Help: "Total WebSocket messages by type",
		}, []string{"type"}),
	}

	m.registry.MustRegister(m.FramesRendered)
	m.registry.MustRegister(m.CrossingPolygons)
	m.registry.MustRegister(m.RenderDurationMs)
	m.registry.MustRegister(m.ActiveSessions)
	m.registry.MustRegister(m.Messages)

	return m
}

// Handler exposes the metrics in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
