// Package metrics defines and registers all custom Prometheus metrics for the
// realty marketplace API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "realty"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts successful account registrations.
// Label:
//   - role: the role the account was created with ("tenant", "landlord")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRotationsTotal counts refresh-token rotation outcomes.
// Label:
//   - result: "rotated", "rejected" (bad token), or "replayed" (denylisted jti)
var TokenRotationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rotations_total",
		Help:      "Total number of refresh-token rotations, by outcome.",
	},
	[]string{"result"},
)

// ── Payment webhook metrics ───────────────────────────────────────────────────

// PaymentEventsProcessedTotal counts gateway events that completed processing.
// Label:
//   - status: the settlement status applied ("completed", "failed")
var PaymentEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_events_processed_total",
		Help:      "Total number of gateway settlement events successfully processed.",
	},
	[]string{"status"},
)

// PaymentEventsErrorsTotal counts gateway events that failed processing.
// Label:
//   - reason: short description ("payment_not_found", "invalid_status", "update_failed")
var PaymentEventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_events_errors_total",
		Help:      "Total number of gateway settlement events that failed processing.",
	},
	[]string{"reason"},
)

// PaymentEventsDedupTotal counts deduplication decisions on gateway events.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, processed)
var PaymentEventsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_events_dedup_total",
		Help:      "Total number of gateway-event deduplication checks, by result (hit/miss).",
	},
	[]string{"result"},
)

// PaymentQueueDepth tracks events waiting in each webhook worker channel.
// Label:
//   - worker_id: numeric worker index ("0", "1", …)
var PaymentQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "payment_queue_depth",
		Help:      "Current number of gateway events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Marketplace metrics ───────────────────────────────────────────────────────

// BookingsCreatedTotal counts newly created bookings.
var BookingsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created.",
	},
)

// InvestmentsFundedTotal counts offerings that reached their funding goal.
var InvestmentsFundedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "investments_funded_total",
		Help:      "Total number of crowdfunded offerings that reached their goal.",
	},
)
