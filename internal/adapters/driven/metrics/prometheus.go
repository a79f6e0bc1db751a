package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SearchMetrics = (*PrometheusMetrics)(nil)

// Source call outcomes used as the status label
const (
	StatusOK      = "ok"
	StatusTimeout = "timeout"
	StatusError   = "error"
)

// PrometheusMetrics implements driven.SearchMetrics with Prometheus collectors
type PrometheusMetrics struct {
	sourceDuration *prometheus.HistogramVec
	sourceResults  *prometheus.HistogramVec
	searches       *prometheus.CounterVec
	searchDuration prometheus.Histogram
	fallbacks      prometheus.Counter
}

// NewPrometheusMetrics creates the collectors and registers them with reg
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		sourceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sercha_search_source_duration_seconds",
				Help:    "Time spent querying one search source",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source", "status"},
		),
		sourceResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sercha_search_source_results",
				Help:    "Results returned by one search source before ranking",
				Buckets: prometheus.ExponentialBuckets(1, 2, 9),
			},
			[]string{"source"},
		),
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sercha_search_requests_total",
				Help: "Federated searches served",
			},
			[]string{"semantic"},
		),
		searchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sercha_search_duration_seconds",
				Help:    "Time spent serving a federated search",
				Buckets: prometheus.DefBuckets,
			},
		),
		fallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sercha_search_embedding_fallbacks_total",
				Help: "Searches degraded to keyword-only because no query embedding was available",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.sourceDuration, m.sourceResults, m.searches, m.searchDuration, m.fallbacks} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveSource records one strategy invocation
func (m *PrometheusMetrics) ObserveSource(source domain.Source, duration time.Duration, count int, err error) {
	m.sourceDuration.WithLabelValues(string(source), sourceStatus(err)).Observe(duration.Seconds())
	if err == nil {
		m.sourceResults.WithLabelValues(string(source)).Observe(float64(count))
	}
}

// ObserveSearch records one federated search
func (m *PrometheusMetrics) ObserveSearch(duration time.Duration, total int, semantic bool) {
	m.searches.WithLabelValues(strconv.FormatBool(semantic)).Inc()
	m.searchDuration.Observe(duration.Seconds())
}

// ObserveEmbeddingFallback records a keyword-only degradation
func (m *PrometheusMetrics) ObserveEmbeddingFallback() {
	m.fallbacks.Inc()
}

func sourceStatus(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, domain.ErrStrategyTimeout):
		return StatusTimeout
	default:
		return StatusError
	}
}
