package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsPosted  *prometheus.CounterVec
	TransactionsReplays prometheus.Counter
	TransactionErrors   *prometheus.CounterVec
	TransactionDuration prometheus.Histogram
	TransactionAmount   *prometheus.HistogramVec

	// Account metrics
	AccountsOpened    prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Balance cache metrics
	BalanceCacheHits   prometheus.Counter
	BalanceCacheMisses prometheus.Counter

	// Reconciliation metrics
	ConsistencyChecks *prometheus.CounterVec
	UnbalancedEntries prometheus.Gauge
	DriftedBalances   prometheus.Gauge
	BalancesRebuilt   prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Transaction metrics
		TransactionsPosted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_transactions_posted_total",
				Help: "Total number of ledger transactions posted by type",
			},
			[]string{"type"},
		),
		TransactionsReplays: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_transaction_replays_total",
			Help: "Total number of duplicate requests served from the idempotency store",
		}),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_transaction_errors_total",
				Help: "Total number of transaction errors by type",
			},
			[]string{"error_type"},
		),
		TransactionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "corebank_transaction_duration_seconds",
			Help:    "Duration of transaction posting",
			Buckets: prometheus.DefBuckets,
		}),
		TransactionAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "corebank_transaction_amount_minor",
				Help:    "Posted amounts in minor units",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"type"},
		),

		// Account metrics
		AccountsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_accounts_opened_total",
			Help: "Total number of accounts opened",
		}),
		AccountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		// Balance cache metrics
		BalanceCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_balance_cache_hits_total",
			Help: "Balance reads served from the response cache",
		}),
		BalanceCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_balance_cache_misses_total",
			Help: "Balance reads that fell through to the store",
		}),

		// Reconciliation metrics
		ConsistencyChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_consistency_checks_total",
				Help: "Ledger consistency checks by result",
			},
			[]string{"result"},
		),
		UnbalancedEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "corebank_unbalanced_entries",
			Help: "Unbalanced journal entries found by the last consistency check",
		}),
		DriftedBalances: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "corebank_drifted_balances",
			Help: "Cached balances disagreeing with the ledger in the last consistency check",
		}),
		BalancesRebuilt: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_balances_rebuilt_total",
			Help: "Total balance cache rebuilds",
		}),
	}
}
