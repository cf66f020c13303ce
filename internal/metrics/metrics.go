// Package metrics exposes Prometheus instrumentation for generation requests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values for generation metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeCanceled = "canceled"
	OutcomeError    = "error"
)

// Metrics owns a private registry so the process-wide default stays clean.
type Metrics struct {
	registry     *prometheus.Registry
	generations  *prometheus.CounterVec
	results      *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	wordListSize prometheus.Gauge
}

// New creates Metrics with Go runtime and process collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passwordgen_generations_total",
				Help: "Total number of generation requests by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passwordgen_results_total",
				Help: "Total number of generated passwords and passphrases",
			},
			[]string{"method"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "passwordgen_generation_duration_seconds",
				Help:    "Generation batch duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
			},
			[]string{"method"},
		),
		wordListSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "passwordgen_wordlist_size",
			Help: "Number of words in the loaded passphrase corpus",
		}),
	}

	registry.MustRegister(m.generations, m.results, m.duration, m.wordListSize)
	return m
}

// ObserveGeneration records one generation batch. method is "unknown" for
// requests rejected before a method was resolved.
func (m *Metrics) ObserveGeneration(method, outcome string, results int, elapsed time.Duration) {
	if method == "" {
		method = "unknown"
	}
	m.generations.WithLabelValues(method, outcome).Inc()
	if results > 0 {
		m.results.WithLabelValues(method).Add(float64(results))
	}
	if outcome == OutcomeSuccess {
		m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
	}
}

// SetWordListSize records the size of the loaded corpus.
func (m *Metrics) SetWordListSize(n int) {
	m.wordListSize.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
