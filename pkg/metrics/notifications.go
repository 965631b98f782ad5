package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NotificationMetrics tracks derivation passes and read-state writes.
type NotificationMetrics struct {
	derived  *prometheus.CounterVec
	duration prometheus.Histogram
	marked   *prometheus.CounterVec
}

// NewNotificationMetrics registers the notification metrics on the provided registerer.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	derived := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_derived_total",
		Help: "Notifications emitted by derivation passes.",
	}, []string{"kind", "category"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "notifications_derive_duration_seconds",
		Help:    "Time spent deriving and rendering notifications.",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
	})
	marked := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_marked_read_total",
		Help: "Notification ids newly added to read sets.",
	}, []string{"scope"})
	reg.MustRegister(derived, duration, marked)
	return &NotificationMetrics{derived: derived, duration: duration, marked: marked}
}

func (n *NotificationMetrics) ObserveDerivation(duration time.Duration) {
	if n == nil || n.duration == nil {
		return
	}
	n.duration.Observe(duration.Seconds())
}

func (n *NotificationMetrics) IncDerived(kind, category string) {
	if n == nil || n.derived == nil {
		return
	}
	n.derived.WithLabelValues(normalizeLabel(kind), normalizeLabel(category)).Inc()
}

func (n *NotificationMetrics) AddMarkedRead(scope string, count int) {
	if n == nil || n.marked == nil || count <= 0 {
		return
	}
	n.marked.WithLabelValues(normalizeLabel(scope)).Add(float64(count))
}
