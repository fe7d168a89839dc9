package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutSessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "event_hub_checkout_sessions_created_total",
		Help: "Number of gateway checkout sessions opened.",
	})

	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_hub_webhook_events_total",
		Help: "Webhook events received, by type and outcome.",
	}, []string{"type", "outcome"})

	RefundsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "event_hub_refunds_total",
		Help: "Number of ticket refunds processed.",
	})

	ActiveWsConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "event_hub_ws_connections_active",
		Help: "Currently open chat websocket connections.",
	})
)
