package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Riboost-Studio/order-print-hub/internal/model"
)

// Metrics collects print pipeline and live hub metrics. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	attempts        *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	orders          *prometheus.CounterVec
	subscribers     prometheus.Gauge
	queued          prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "print_attempts_total",
			Help: "Print attempts by transport and outcome",
		}, []string{"transport", "outcome"}),
		attemptDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "print_attempt_duration_seconds",
			Help:    "Duration of a single transport attempt",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"transport"}),
		orders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "print_orders_total",
			Help: "Orders by final print outcome",
		}, []string{"outcome"}),
		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "live_subscribers",
			Help: "Currently connected live listeners",
		}),
		queued: factory.NewGauge(prometheus.GaugeOpts{
			Name: "live_queued_orders",
			Help: "Orders waiting for the next live listener",
		}),
	}
}

func outcome(s model.PrintStatus) string {
	if s.Success {
		return "success"
	}
	return "failure"
}

func (m *Metrics) observeAttempt(transport string, s model.PrintStatus, d time.Duration) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(transport, outcome(s)).Inc()
	m.attemptDuration.WithLabelValues(transport).Observe(d.Seconds())
}

func (m *Metrics) observeOrder(s model.PrintStatus) {
	if m == nil {
		return
	}
	m.orders.WithLabelValues(outcome(s)).Inc()
}

func (m *Metrics) setSubscribers(n int) {
	if m == nil {
		return
	}
	m.subscribers.Set(float64(n))
}

func (m *Metrics) setQueued(n int) {
	if m == nil {
		return
	}
	m.queued.Set(float64(n))
}
