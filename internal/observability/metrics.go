package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_requests_total",
			Help: "Total number of requests",
		},
		[]string{"route", "code", "method"},
	)

	CartAdditions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_cart_additions_total",
			Help: "Items added to carts",
		},
		[]string{"kind"},
	)

	Decisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_approval_decisions_total",
			Help: "Approval requests submitted and decided, by resulting status",
		},
		[]string{"kind", "status"},
	)

	PendingApprovals = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "campus_pending_approvals",
			Help: "Requests waiting for an administrator",
		},
		[]string{"kind"},
	)

	OutboxLag = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "campus_outbox_lag_seconds",
			Help: "Lag between an event being recorded and published",
		},
	)

	SinkPublishRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_sink_publish_retries_total",
			Help: "Total event sink publish retries",
		},
		[]string{"sink"},
	)

	OutboxDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campus_outbox_dropped_total",
			Help: "Events dropped because the outbox buffer was full",
		},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campus_rate_limit_exceeded_total",
			Help: "Total rate limit exceeded",
		},
	)
)
