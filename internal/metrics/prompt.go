package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Confirmation prompt metrics
var (
	// PromptTrialsTotal counts answers read from the operator, by validity
	PromptTrialsTotal *prometheus.CounterVec

	// ConfirmationsTotal counts finished prompts by outcome (confirmed, declined, exhausted)
	ConfirmationsTotal *prometheus.CounterVec
)

func initPromptMetrics() {
	PromptTrialsTotal = NewCounterVec(
		"cleansweep_prompt_trials_total",
		"Total answers read by the confirmation prompt.",
		[]string{"valid"},
	)

	ConfirmationsTotal = NewCounterVec(
		"cleansweep_confirmations_total",
		"Total confirmation prompts by outcome.",
		[]string{"outcome"},
	)
}

func registerPromptMetrics() {
	prometheus.MustRegister(PromptTrialsTotal)
	prometheus.MustRegister(ConfirmationsTotal)
}

// RecordTrial records one answer read from the operator
func RecordTrial(valid bool) {
	Init()
	label := "false"
	if valid {
		label = "true"
	}
	PromptTrialsTotal.WithLabelValues(label).Inc()
}

// RecordConfirmation records the outcome of a prompt
func RecordConfirmation(outcome string) {
	Init()
	ConfirmationsTotal.WithLabelValues(outcome).Inc()
}
