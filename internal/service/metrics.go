package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kottravai",
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Total number of orders durably stored.",
	})

	notificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kottravai",
		Subsystem: "orders",
		Name:      "notification_failures_total",
		Help:      "Total number of confirmation emails that failed to send.",
	})

	shipmentFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kottravai",
		Subsystem: "orders",
		Name:      "shipment_failures_total",
		Help:      "Total number of shipment creations that failed and need manual recovery.",
	})

	shipmentsReconciled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kottravai",
		Subsystem: "orders",
		Name:      "shipments_reconciled_total",
		Help:      "Total number of shipments created by the reconciler after an earlier failure.",
	})
)
