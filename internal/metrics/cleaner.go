package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Cleaner metrics
var (
	// ErrorsTotal tracks total errors encountered by cleansweep
	ErrorsTotal prometheus.Counter

	// ValidationsTotal counts validation passes by failing field and result
	ValidationsTotal *prometheus.CounterVec

	// BaseDirRevertsTotal counts fallbacks to the previous base directory
	BaseDirRevertsTotal prometheus.Counter

	// PathsDiscoveredTotal counts paths yielded by discovery
	PathsDiscoveredTotal prometheus.Counter

	// DiscoverySize tracks how many paths a verbose discovery listed
	DiscoverySize prometheus.Histogram

	// BaseDirValid is 1 while the current base directory passed its last check
	BaseDirValid prometheus.Gauge
)

func initCleanerMetrics() {
	ErrorsTotal = NewCounter(
		"cleansweep_errors_total",
		"Total number of errors encountered by cleansweep.",
	)

	ValidationsTotal = NewCounterVec(
		"cleansweep_validations_total",
		"Total validation passes by field and result.",
		[]string{"field", "result"},
	)

	BaseDirRevertsTotal = NewCounter(
		"cleansweep_base_dir_reverts_total",
		"Total number of reverts to the previously valid base directory.",
	)

	PathsDiscoveredTotal = NewCounter(
		"cleansweep_paths_discovered_total",
		"Total number of paths yielded by discovery.",
	)

	DiscoverySize = NewCountHistogram(
		"cleansweep_discovery_size",
		"Number of paths listed per verbose discovery.",
	)

	BaseDirValid = NewGauge(
		"cleansweep_base_dir_valid",
		"1 if the current base directory passed its last validation, 0 otherwise.",
	)
}

func registerCleanerMetrics() {
	prometheus.MustRegister(ErrorsTotal)
	prometheus.MustRegister(ValidationsTotal)
	prometheus.MustRegister(BaseDirRevertsTotal)
	prometheus.MustRegister(PathsDiscoveredTotal)
	prometheus.MustRegister(DiscoverySize)
	prometheus.MustRegister(BaseDirValid)
}

// RecordValidation records one validation pass. field is empty on success.
func RecordValidation(field string, ok bool) {
	Init()
	result := "failed"
	if ok {
		result = "ok"
		field = "none"
	}
	ValidationsTotal.WithLabelValues(field, result).Inc()
	if ok {
		BaseDirValid.Set(1)
	} else {
		BaseDirValid.Set(0)
	}
}

// RecordRevert records a fallback to the previous base directory
func RecordRevert() {
	Init()
	BaseDirRevertsTotal.Inc()
}

// RecordDiscovered records n paths yielded by discovery
func RecordDiscovered(n int) {
	Init()
	PathsDiscoveredTotal.Add(float64(n))
}

// RecordListing records the size of a materialized verbose listing
func RecordListing(n int) {
	Init()
	DiscoverySize.Observe(float64(n))
}

// RecordError increments the error counter
func RecordError() {
	Init()
	ErrorsTotal.Inc()
}
