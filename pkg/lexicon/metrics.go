package lexicon

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "nzebi"

// Metrics counts cache and mutation activity. A nil *Metrics records nothing.
type Metrics struct {
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	Loads          *prometheus.CounterVec
	SourceFailures *prometheus.CounterVec
	Mutations      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hits_total",
			Help:      "Total number of word cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_misses_total",
			Help:      "Total number of word cache misses",
		}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "loads_total",
			Help:      "Total number of word loads by the source that supplied them",
		}, []string{"source"}),
		SourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "source_failures_total",
			Help:      "Total number of unavailable sources during loads",
		}, []string{"source"}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "mutations_total",
			Help:      "Total number of word mutations",
		}, []string{"kind", "status"}),
	}
	if reg != nil {
		reg.MustRegister(m.CacheHits, m.CacheMisses, m.Loads, m.SourceFailures, m.Mutations)
	}
	return m
}

func (m *Metrics) hit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

func (m *Metrics) loaded(source string, failed []string) {
	if m == nil {
		return
	}
	if source == "" {
		source = "none"
	}
	m.Loads.WithLabelValues(source).Inc()
	for _, name := range failed {
		m.SourceFailures.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) mutation(kind string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Mutations.WithLabelValues(kind, status).Inc()
}
