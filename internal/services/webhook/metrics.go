package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mWebhooks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_webhooks_received_total", Help: "Inbound webhooks by outcome",
	}, []string{"outcome"})
	mDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_deliveries_total", Help: "Per-wallet delivery attempts by result",
	}, []string{"result"})
	mDuplicates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_duplicates_total", Help: "Webhooks ignored as already seen",
	})
)
