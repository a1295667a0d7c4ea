package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/supportdesk/backend/internal/models"
)

// Metrics holds Prometheus metrics for triage.
type Metrics struct {
	EmailsTotal    *prometheus.CounterVec
	TriagedTotal   *prometheus.CounterVec
	EmailDuration  prometheus.Histogram
	IngestsTotal   prometheus.Counter
	IngestDuration prometheus.Histogram
	MutationsTotal *prometheus.CounterVec
	QueueItems     prometheus.Gauge
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EmailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supportdesk_emails_total",
			Help: "Emails seen by ingest, by outcome.",
		}, []string{"outcome"}),
		TriagedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supportdesk_emails_triaged_total",
			Help: "Triaged emails by priority and category.",
		}, []string{"priority", "category"}),
		EmailDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "supportdesk_email_triage_duration_seconds",
			Help:    "Time spent triaging a single email.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8), // 0.1ms .. ~1.6s
		}),
		IngestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "supportdesk_ingests_total",
			Help: "Completed ingest batches.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "supportdesk_ingest_duration_seconds",
			Help:    "Duration of ingest batches in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms .. ~20s
		}),
		MutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supportdesk_queue_mutations_total",
			Help: "Operator changes to queued items, by operation.",
		}, []string{"op"}),
		QueueItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "supportdesk_queue_items",
			Help: "Items currently in the triage queue.",
		}),
	}

	reg.MustRegister(
		m.EmailsTotal,
		m.TriagedTotal,
		m.EmailDuration,
		m.IngestsTotal,
		m.IngestDuration,
		m.MutationsTotal,
		m.QueueItems,
	)

	return m
}

// Hooks returns service Hooks that update the metrics.
func (m *Metrics) Hooks() Hooks {
	return Hooks{
		OnEmail: func(outcome string, item *models.Item, duration float64) {
			m.EmailsTotal.WithLabelValues(outcome).Inc()
			m.EmailDuration.Observe(duration)
			if item != nil {
				m.TriagedTotal.WithLabelValues(string(item.Priority), string(item.Category)).Inc()
			}
		},
		OnIngest: func(_ IngestSummary, duration float64) {
			m.IngestsTotal.Inc()
			m.IngestDuration.Observe(duration)
		},
		OnMutation: func(op string) {
			m.MutationsTotal.WithLabelValues(op).Inc()
		},
		OnQueueLen: func(n int) {
			m.QueueItems.Set(float64(n))
		},
	}
}
