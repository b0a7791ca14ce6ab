// Package metrics holds the engine's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Payments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_payments_total",
		Help: "Payment validations by outcome",
	}, []string{"outcome"})

	TicketsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_tickets_issued_total",
		Help: "The total number of tickets created after a successful debit",
	})

	TicketsNotIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_tickets_not_issued_total",
		Help: "Debits that were not followed by a stored ticket",
	})

	Activations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_ticket_activations_total",
		Help: "Ticket activation attempts by outcome",
	}, []string{"outcome"})

	Expirations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_ticket_expirations_total",
		Help: "The total number of tickets moved to expired",
	})

	ReconcileFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_reconcile_failures_total",
		Help: "Overdue active tickets that failed to persist as expired",
	})

	TrackedActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "transit_tracked_active_tickets",
		Help: "Active tickets currently tracked for countdown and expiry",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
