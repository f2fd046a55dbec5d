// Package telemetry exposes the harvester's prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/parlwatch/hansard/internal/hansard"
)

// Metrics counts the externally interesting events of a run. A nil *Metrics
// is valid and records nothing, so one-shot commands can skip registration.
type Metrics struct {
	Runs          prometheus.Counter
	DocumentsNew  *prometheus.CounterVec
	Skipped       prometheus.Counter
	FetchFailures prometheus.Counter
}

// NewMetrics builds and registers the counters against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hansard_runs_total",
			Help: "Acquisition runs started.",
		}),
		DocumentsNew: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hansard_documents_new_total",
			Help: "Newly saved transcripts by chamber.",
		}, []string{"chamber"}),
		Skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hansard_candidates_skipped_total",
			Help: "Candidates skipped because their identifier was already recorded.",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hansard_fetch_failures_total",
			Help: "Candidate fetches that failed and were left for the next run.",
		}),
	}
	reg.MustRegister(m.Runs, m.DocumentsNew, m.Skipped, m.FetchFailures)
	return m
}

// RunStarted bumps the run counter.
func (m *Metrics) RunStarted() {
	if m == nil {
		return
	}
	m.Runs.Inc()
}

// DocumentSaved bumps the per-chamber new-document counter.
func (m *Metrics) DocumentSaved(c hansard.Chamber) {
	if m == nil {
		return
	}
	m.DocumentsNew.WithLabelValues(c.String()).Inc()
}

// CandidateSkipped bumps the dedup short-circuit counter.
func (m *Metrics) CandidateSkipped() {
	if m == nil {
		return
	}
	m.Skipped.Inc()
}

// FetchFailed bumps the failed-fetch counter.
func (m *Metrics) FetchFailed() {
	if m == nil {
		return
	}
	m.FetchFailures.Inc()
}
