// Package metrics defines and registers all custom Prometheus metrics for the
// notes API. It is the single source of truth for metric names, labels, and
// help strings. Metrics are registered with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "notes"

// ── Constraint metrics ────────────────────────────────────────────────────────

// ConstraintOutcomesTotal counts the decision reached for every write request.
// Labels:
//   - resource: "user" or "note"
//   - method: HTTP method of the write (POST, PUT, PATCH, DELETE)
//   - outcome: accepted, conflict, not_found, invalid, referential_block, or error
//   - reason: the violation reason (e.g. "duplicate_value"), empty when accepted
var ConstraintOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "constraint_outcomes_total",
		Help:      "Write requests by constraint decision.",
	},
	[]string{"resource", "method", "outcome", "reason"},
)

// ── Repository event metrics ──────────────────────────────────────────────────

// EventsPublishedTotal counts repository events delivered to the sink.
// Labels:
//   - resource: "user" or "note"
//   - action: created, updated, deleted
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "repository_events_published_total",
		Help:      "Total number of repository events delivered to the event sink.",
	},
	[]string{"resource", "action"},
)

// EventsErrorsTotal counts repository events the sink rejected or that were dropped.
// Label:
//   - reason: "sink_error" or "queue_full"
var EventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "repository_events_errors_total",
		Help:      "Total number of repository events that could not be delivered.",
	},
	[]string{"reason"},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "repository_events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventPublishDuration measures how long the sink takes to accept one event.
var EventPublishDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "repository_event_publish_duration_seconds",
		Help:      "Duration of a single repository event publish.",
		Buckets:   prometheus.DefBuckets,
	},
)
