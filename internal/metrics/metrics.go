package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Deliveries counts push dispatch attempts by outcome
	// (delivered/expired/failed).
	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "push_deliveries_total",
		Help: "Push delivery attempts by outcome.",
	}, []string{"outcome"})

	// PrunedSubscriptions counts rows deleted after the push service
	// reported the endpoint gone.
	PrunedSubscriptions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "push_subscriptions_pruned_total",
		Help: "Subscriptions deleted after the push service reported them gone.",
	})

	// NotifyRequests counts notify-user operations.
	NotifyRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "push_notify_requests_total",
		Help: "Notify-user operations received.",
	})
)
