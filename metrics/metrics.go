package metrics

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cartMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Total number of cart mutations by operation.",
		},
		[]string{"operation"},
	)

	cartItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cart_items",
			Help: "Current number of items held in the cart.",
		},
	)

	reconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cart_reconcile_duration_seconds",
			Help:    "Duration of cart resolution calls in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	reconcileFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_reconcile_failures_total",
			Help: "Total number of failed cart resolution calls.",
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

func RecordMutation(operation string, totalItems int) {
	cartMutationsTotal.WithLabelValues(operation).Inc()
	cartItems.Set(float64(totalItems))
}

func RecordReconcile(duration time.Duration, err error) {
	reconcileDuration.Observe(duration.Seconds())

	if err != nil {
		reconcileFailuresTotal.Inc()
	}
}
