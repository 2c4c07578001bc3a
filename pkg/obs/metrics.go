package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the registered collectors via the usual
// functional-options pattern.
type MetricsConfig struct {
	Namespace   string
	Subsystem   string
	ConstLabels prometheus.Labels
	Registry    prometheus.Registerer
}

// MetricsOption mutates a MetricsConfig.
type MetricsOption func(*MetricsConfig)

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "fitcalc",
		Subsystem: "engine",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = ns }
}

// WithSubsystem overrides the metric subsystem.
func WithSubsystem(sub string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = sub }
}

// WithConstLabels attaches fixed labels to every collector.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithRegisterer overrides the Prometheus registry collectors attach to.
func WithRegisterer(r prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = r }
}

// Metrics holds the collectors the calculator and restriction checks
// report to (adapted from pkg/middleware/metrics.go's eventsTotal/
// eventDuration/eventErrors/sessions family, retargeted at attribute
// reads, invalidation cascades, and restriction validation).
type Metrics struct {
	reads             *prometheus.CounterVec
	readDuration      *prometheus.HistogramVec
	cacheMisses       *prometheus.CounterVec
	invalidationSize  prometheus.Histogram
	restrictionChecks *prometheus.CounterVec
	activeFits        prometheus.Gauge
}

// NewMetrics constructs and registers every collector.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		reads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "attribute_reads_total",
			Help:        "Total Holder.Get calls, labeled by outcome.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"outcome"}),
		readDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "attribute_read_duration_seconds",
			Help:        "Latency of a top-level Holder.Get call.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: cfg.ConstLabels,
		}, []string{"outcome"}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "attribute_cache_misses_total",
			Help:        "Attribute reads that required recomputation.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"attr"}),
		invalidationSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "invalidation_cascade_size",
			Help:        "Number of (holder, attribute) pairs evicted per mutation.",
			Buckets:     []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
			ConstLabels: cfg.ConstLabels,
		}),
		restrictionChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "restriction_checks_total",
			Help:        "Fit.Validate calls, labeled by restriction name and outcome.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"restriction", "outcome"}),
		activeFits: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "active_fits",
			Help:        "Fits currently held by the fit session registry.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// ObserveRead records one top-level attribute read.
func (m *Metrics) ObserveRead(outcome string, seconds float64, missed bool, attr string) {
	m.reads.WithLabelValues(outcome).Inc()
	m.readDuration.WithLabelValues(outcome).Observe(seconds)
	if missed {
		m.cacheMisses.WithLabelValues(attr).Inc()
	}
}

// ObserveInvalidation records the size of one invalidation cascade.
func (m *Metrics) ObserveInvalidation(evicted int) {
	m.invalidationSize.Observe(float64(evicted))
}

// ObserveRestrictionCheck records one restriction's validation outcome.
func (m *Metrics) ObserveRestrictionCheck(restriction, outcome string) {
	m.restrictionChecks.WithLabelValues(restriction, outcome).Inc()
}

// SetActiveFits reports the current fit-session registry size.
func (m *Metrics) SetActiveFits(n int) {
	m.activeFits.Set(float64(n))
}
