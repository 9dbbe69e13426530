// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeConfirmed = "confirmed"
	OutcomeBlocked   = "blocked"
	OutcomeFailed    = "failed"
	OutcomeOK        = "ok"
	OutcomeFallback  = "fallback"
)

var (
	// BookingsTotal counts booking attempts.
	// Labels:
	//   - outcome: "confirmed", "blocked", "failed"
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumen_bookings_total",
			Help: "Total number of booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	// AIRequestsTotal counts calls into the AI gateway.
	// Labels:
	//   - operation: "analyze_id", "booking_fraud", "sentiment", "iot_anomaly", "chat"
	//   - outcome: "ok", "fallback"
	AIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumen_ai_requests_total",
			Help: "Total number of AI gateway requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	AIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lumen_ai_request_duration_seconds",
			Help:    "Duration of AI gateway requests in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"operation"},
	)

	ServiceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumen_service_requests_total",
			Help: "Total number of guest service requests by priority",
		},
		[]string{"priority"},
	)

	EmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumen_emails_total",
			Help: "Total number of confirmation emails by outcome",
		},
		[]string{"outcome"},
	)

	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lumen_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})
)
