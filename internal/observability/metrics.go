// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	// Trade metrics
	TradesTotal   *prometheus.CounterVec
	TradeDuration *prometheus.HistogramVec
	WithdrawalsTotal prometheus.Counter

	// Submission metrics
	SubmissionsTotal *prometheus.CounterVec
	RelayFallbacks   prometheus.Counter

	// Confirmation metrics
	ConfirmationLatency prometheus.Histogram
	ConfirmationExpiry  prometheus.Counter

	// Wallet metrics
	WalletsCreated  prometheus.Counter
	WalletsImported prometheus.Counter
	WalletsDeleted  prometheus.Counter

	// Quote metrics
	QuoteLatency  prometheus.Histogram
	QuoteFailures *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "swap_engine"
	}

	return &Metrics{
		TradesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "trades_total",
			Help:      "Total number of trade attempts by direction and outcome",
		}, []string{"direction", "outcome"}),
		TradeDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "trade_duration_seconds",
			Help:      "End-to-end trade duration in seconds",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"direction"}),
		WithdrawalsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "withdrawals_total",
			Help:      "Total number of confirmed withdrawals",
		}),

		SubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "submissions_total",
			Help:      "Total number of transaction submissions by route",
		}, []string{"route"}),
		RelayFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "fallbacks_total",
			Help:      "Total number of protected submissions that fell back to the direct path",
		}),

		ConfirmationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "confirmation_latency_seconds",
			Help:      "Time from submission to confirmed commitment in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		ConfirmationExpiry: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "confirmation_expiry_total",
			Help:      "Total number of confirmations abandoned at blockhash expiry",
		}),

		WalletsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      "wallets_created_total",
			Help:      "Total number of wallets generated",
		}),
		WalletsImported: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      "wallets_imported_total",
			Help:      "Total number of wallets imported",
		}),
		WalletsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      "wallets_deleted_total",
			Help:      "Total number of wallets deleted",
		}),

		QuoteLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "jupiter",
			Name:      "quote_latency_seconds",
			Help:      "Aggregator quote latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		QuoteFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jupiter",
			Name:      "quote_failures_total",
			Help:      "Total number of failed quote requests by reason",
		}, []string{"reason"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// ObserveTrade records one trade attempt. Satisfies the executor's
// metrics hook.
func (m *Metrics) ObserveTrade(direction, outcome string, seconds float64) {
	m.TradesTotal.WithLabelValues(direction, outcome).Inc()
	m.TradeDuration.WithLabelValues(direction).Observe(seconds)
}

// RecordSubmission records which route carried a transaction and
// whether the relay path fell back to direct. Satisfies the router's
// metrics hook.
func (m *Metrics) RecordSubmission(route string, fellBack bool) {
	m.SubmissionsTotal.WithLabelValues(route).Inc()
	if fellBack {
		m.RelayFallbacks.Inc()
	}
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, seconds float64, err error) {
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
