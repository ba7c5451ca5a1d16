package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/ports"
)

var _ ports.SyncObserver = (*SyncMetrics)(nil)

// SyncMetrics exports sync cycle outcomes as Prometheus metrics.
type SyncMetrics struct {
	cycles    *prometheus.CounterVec
	quotes    *prometheus.CounterVec
	conflicts prometheus.Counter
	duration  prometheus.Histogram
}

// NewSyncMetrics registers the sync metrics with reg. A nil reg uses the
// default registry served by promhttp.Handler.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &SyncMetrics{
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quotesync",
			Subsystem: "sync",
			Name:      "cycles_total",
			Help:      "Sync cycles by outcome (success, error, skipped).",
		}, []string{"outcome"}),
		quotes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quotesync",
			Subsystem: "sync",
			Name:      "quotes_total",
			Help:      "Quotes affected by sync, by action (uploaded, added, replaced).",
		}, []string{"action"}),
		conflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "quotesync",
			Subsystem: "sync",
			Name:      "conflicts_total",
			Help:      "Local quotes overwritten by a server version.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quotesync",
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Duration of executed sync cycles.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// SyncSkipped implements ports.SyncObserver.
func (m *SyncMetrics) SyncSkipped() {
	m.cycles.WithLabelValues("skipped").Inc()
}

// SyncFinished implements ports.SyncObserver.
func (m *SyncMetrics) SyncFinished(result domain.SyncResult, err error, elapsed time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}

	m.cycles.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())

	m.quotes.WithLabelValues("uploaded").Add(float64(result.Uploaded))
	m.quotes.WithLabelValues("added").Add(float64(result.Added))
	m.quotes.WithLabelValues("replaced").Add(float64(result.Replaced))
	m.conflicts.Add(float64(result.Conflicts))
}
