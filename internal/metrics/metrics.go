// Package metrics exposes Prometheus instruments for match runs and email delivery.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

// Recorder is what services report to
type Recorder interface {
	RecordMatchRun(policy, outcome string, duration time.Duration, attempts int)
	RecordEmail(gateway, status string)
}

// Collector records metrics into a Prometheus registry.
type Collector struct {
	matchRunsTotal   *prometheus.CounterVec
	matchRunDuration *prometheus.HistogramVec
	matchAttempts    *prometheus.HistogramVec
	emailsTotal      *prometheus.CounterVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector registers the instruments with reg. A nil reg uses the
// default Prometheus registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		matchRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "secret_santa_match_runs_total",
				Help: "Total number of match runs by policy and outcome",
			},
			[]string{"policy", "outcome"},
		),
		matchRunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "secret_santa_match_run_duration_seconds",
				Help:    "Wall time of a match run including persistence",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"policy"},
		),
		matchAttempts: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "secret_santa_match_attempts",
				Help:    "Shuffles needed to find a derangement",
				Buckets: []float64{1, 2, 3, 5, 10, 25, 100, 1000},
			},
			[]string{"policy"},
		),
		emailsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "secret_santa_emails_total",
				Help: "Total number of emails by gateway and delivery status",
			},
			[]string{"gateway", "status"},
		),
	}
}

// RecordMatchRun records one finished run. Attempts are only observed for completed runs.
func (c *Collector) RecordMatchRun(policy, outcome string, duration time.Duration, attempts int) {
	c.matchRunsTotal.WithLabelValues(policy, outcome).Inc()
	c.matchRunDuration.WithLabelValues(policy).Observe(duration.Seconds())
	if outcome == OutcomeCompleted {
		c.matchAttempts.WithLabelValues(policy).Observe(float64(attempts))
	}
}

// RecordEmail counts one delivery attempt
func (c *Collector) RecordEmail(gateway, status string) {
	c.emailsTotal.WithLabelValues(gateway, status).Inc()
}

// Nop discards all metrics.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RecordMatchRun(string, string, time.Duration, int) {}

func (Nop) RecordEmail(string, string) {}
