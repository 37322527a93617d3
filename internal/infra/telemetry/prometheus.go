package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics instruments the catalog API service.
type PrometheusMetrics struct {
	toolsIndexed    prometheus.Gauge
	indexReloads    *prometheus.CounterVec
	searchDuration  prometheus.Histogram
	requestDuration *prometheus.HistogramVec
	favoritesCount  prometheus.Gauge
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		toolsIndexed: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "biocat_tools_indexed",
				Help: "Number of tools in the in-memory catalog index",
			},
		),
		indexReloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biocat_index_reloads_total",
				Help: "Total catalog index reloads",
			},
			[]string{"status"},
		),
		searchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "biocat_search_duration_seconds",
				Help:    "Duration of catalog query evaluation in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
			},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "biocat_http_request_duration_seconds",
				Help:    "Duration of catalog API requests in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"route", "status"},
		),
		favoritesCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "biocat_favorites_count",
				Help: "Current number of favorite tools",
			},
		),
	}
}

func (p *PrometheusMetrics) SetToolsIndexed(count int) {
	p.toolsIndexed.Set(float64(count))
}

func (p *PrometheusMetrics) ObserveIndexReload(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.indexReloads.WithLabelValues(status).Inc()
}

func (p *PrometheusMetrics) ObserveSearch(duration time.Duration) {
	p.searchDuration.Observe(duration.Seconds())
}

func (p *PrometheusMetrics) ObserveRequest(route, status string, duration time.Duration) {
	p.requestDuration.WithLabelValues(route, status).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) SetFavoritesCount(count int) {
	p.favoritesCount.Set(float64(count))
}
