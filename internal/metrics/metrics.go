package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	evaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aegis_moderation_evaluations_total",
		Help: "Total number of content items evaluated by the moderation engine",
	})
	blockedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aegis_moderation_blocked_total",
		Help: "Total number of content items hidden, deleted or banned",
	})
	flaggedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aegis_moderation_flagged_total",
		Help: "Total number of content items queued for human review",
	})
	securityAlertsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aegis_security_alerts_total",
		Help: "Total number of security pattern alerts raised",
	})
	ledgerEvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aegis_ledger_evictions_total",
		Help: "Total number of activity entries evicted from the in-memory ledger",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(evaluationsTotal, blockedTotal, flaggedTotal, securityAlertsTotal, ledgerEvictionsTotal)
}

// IncEvaluation increments the evaluated content counter.
func IncEvaluation() { evaluationsTotal.Inc() }

// IncBlocked increments the blocked content counter.
func IncBlocked() { blockedTotal.Inc() }

// IncFlagged increments the review-queue counter.
func IncFlagged() { flaggedTotal.Inc() }

// IncSecurityAlert increments the raised alerts counter.
func IncSecurityAlert() { securityAlertsTotal.Inc() }

// IncLedgerEviction increments the ledger eviction counter.
func IncLedgerEviction() { ledgerEvictionsTotal.Inc() }
