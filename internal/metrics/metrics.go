// Package metrics exposes the Prometheus counters shared by the API, the
// check-in services and the background jobs.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OperationNudge   = "nudge"
	OperationSummary = "summary"

	TriggerOnDemand  = "on_demand"
	TriggerScheduled = "scheduled"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

type Metrics struct {
	CheckInsTotal           prometheus.Counter
	EntriesCompletedTotal   prometheus.Counter
	AIFallbacksTotal        *prometheus.CounterVec
	SummariesGeneratedTotal *prometheus.CounterVec
	SchedulerRunsTotal      *prometheus.CounterVec
	RemindersSentTotal      prometheus.Counter
}

// NewMetrics registers the nudge_* collectors on the default registry once
// and returns the shared instance on every call.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			CheckInsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "nudge_checkins_total",
				Help: "Total number of daily check-ins recorded",
			}),
			EntriesCompletedTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "nudge_entries_completed_total",
				Help: "Total number of entries marked completed",
			}),
			AIFallbacksTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "nudge_ai_fallbacks_total",
					Help: "Total number of AI calls answered with canned text",
				},
				[]string{"operation"}, // "nudge" or "summary"
			),
			SummariesGeneratedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "nudge_summaries_generated_total",
					Help: "Total number of weekly summaries stored",
				},
				[]string{"trigger"}, // "on_demand" or "scheduled"
			),
			SchedulerRunsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "nudge_scheduler_runs_total",
					Help: "Total number of weekly summary job runs",
				},
				[]string{"outcome"},
			),
			RemindersSentTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "nudge_reminders_sent_total",
				Help: "Total number of reminder webhooks delivered",
			}),
		}
	})

	return globalMetrics
}
