package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared across collectors.
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeThrottled = "throttled"

	OutcomeInserted  = "inserted"
	OutcomeDuplicate = "duplicate"
	OutcomeSkipped   = "skipped"

	OutcomeHit          = "hit"
	OutcomeNegativeHit  = "negative_hit"
	OutcomeMiss         = "miss"
	OutcomeShortCircuit = "short_circuit"
)

var (
	// Webhook ingestion
	WebhookNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blackcheck",
		Subsystem: "webhook",
		Name:      "notifications_total",
		Help:      "Webhook notifications received, by payload kind and result",
	}, []string{"kind", "result"})

	WebhookTransfers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blackcheck",
		Subsystem: "webhook",
		Name:      "transfers_total",
		Help:      "Transfer items seen in webhook notifications, by outcome",
	}, []string{"outcome"})

	// Metadata resolution
	MetadataLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blackcheck",
		Subsystem: "metadata",
		Name:      "lookups_total",
		Help:      "Token metadata lookups, by cache outcome",
	}, []string{"outcome"})

	MetadataFetchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "blackcheck",
		Subsystem: "metadata",
		Name:      "fetch_duration_seconds",
		Help:      "Upstream metadata fetch duration per token",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	BreakerOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "blackcheck",
		Subsystem: "metadata",
		Name:      "breaker_open",
		Help:      "1 while the not-found circuit breaker is open",
	})

	// Upstream providers
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blackcheck",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Upstream API requests, by provider and outcome",
	}, []string{"provider", "outcome"})

	// HTTP
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blackcheck",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by route and status",
	}, []string{"route", "status"})
)
