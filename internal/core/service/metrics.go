package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warehouse_orders_placed_total",
		Help: "Orders successfully placed.",
	})
	ordersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warehouse_orders_cancelled_total",
		Help: "Orders successfully cancelled.",
	})
	placementFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_orders_placement_failures_total",
		Help: "Failed placement attempts by reason.",
	}, []string{"reason"})
	cancellationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_orders_cancellation_failures_total",
		Help: "Failed cancellation attempts by reason.",
	}, []string{"reason"})
)
