package subscription

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mNotifierRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_notifier_requests_total", Help: "Requests sent to the notifier by operation and status",
	}, []string{"op", "status"})
	mReconcileSubscribed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_reconcile_subscribed_total", Help: "Addresses subscribed by reconciliation",
	})
	mReconcileDur = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "relay_reconcile_duration_seconds", Help: "Reconciliation pass duration",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
	})
)
