package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CountBuckets: 1 to 10k for per-call item counts
var CountBuckets = []float64{1, 5, 10, 50, 100, 500, 1000, 10000}

// NewCounter creates a standard counter metric
func NewCounter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: name,
		Help: help,
	})
}

// NewCounterVec creates a labeled counter
func NewCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)
}

// NewCountHistogram creates a histogram for per-call counts
// with buckets: [1, 5, 10, 50, 100, 500, 1000, 10000]
func NewCountHistogram(name, help string) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: CountBuckets,
	})
}

// NewGauge creates a standard gauge metric
func NewGauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
}
