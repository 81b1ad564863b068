// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classbook_bookings_total",
			Help: "Booking attempts by result",
		},
		[]string{"result"},
	)

	LedgerMinutes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classbook_ledger_minutes_total",
			Help: "Minutes moved through the credit ledger by direction",
		},
		[]string{"direction"},
	)

	PackageTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classbook_package_transitions_total",
			Help: "Package status transitions by target status and entry point",
		},
		[]string{"status", "source"},
	)

	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classbook_webhook_events_total",
			Help: "Payment webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)
)

// Register adds every collector to the default registry.
func Register() {
	prometheus.MustRegister(Bookings, LedgerMinutes, PackageTransitions, WebhookEvents)
}
