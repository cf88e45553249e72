package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ServiceResults counts service operation outcomes by status.
	ServiceResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "service_results_total",
		Help: "Service operation results by operation and status",
	}, []string{"operation", "status"})

	// Notifications counts notification deliveries by event type and outcome
	// (sent, skipped, retry, failed).
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Notification deliveries by event type and outcome",
	}, []string{"event", "outcome"})

	// DispatchErrors counts domain events that could not be handed to the
	// workflow engine.
	DispatchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_dispatch_errors_total",
		Help: "Domain events that failed to dispatch",
	}, []string{"event"})

	// CacheLookups counts cache hits and misses by key group.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})
)
