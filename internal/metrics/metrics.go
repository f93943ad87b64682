// Package metrics holds the Prometheus collectors for the Lolidays bot.
// Collectors register on the default registry at init and are exposed by
// the HTTP server at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Geocode outcomes.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

var (
	// GeocodeLookups counts forward-geocoding lookups by outcome
	// (hit, miss, error). Errors include an open circuit breaker.
	GeocodeLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lolidays_geocode_lookups_total",
			Help: "Total number of geocoding lookups by outcome",
		},
		[]string{"outcome"},
	)

	// ChatInteractions counts handled chat events.
	// kind is command, view_submission or block_action; name is the
	// subcommand, callback id or action id; outcome is ok or error.
	ChatInteractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lolidays_chat_interactions_total",
			Help: "Total number of chat interactions handled",
		},
		[]string{"kind", "name", "outcome"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lolidays_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
