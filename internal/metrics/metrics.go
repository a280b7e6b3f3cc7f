package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HoldsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_holds_created_total",
		Help: "The total number of seat holds successfully created",
	})

	HoldsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_holds_rejected_total",
		Help: "The total number of hold requests rejected by the inventory service",
	})

	PaymentResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_payment_resolutions_total",
		Help: "The total number of resolved holds by outcome",
	}, []string{"outcome"})

	InventoryRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_inventory_requests_total",
		Help: "The total number of inventory service requests by endpoint and result",
	}, []string{"endpoint", "result"})
)
