// Copyright 2025 Certen Protocol
//
// Process-level counters and histograms exposed on /metrics, registered
// against the default prometheus registry the way pkg/consensus wires
// counters for ABCI block processing.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ProposalsTotal counts endorsement proposals processed, labeled by
	// outcome ("endorsed" or "rejected").
	ProposalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "litefab_proposals_total",
		Help: "Total number of proposals processed by the endorser.",
	}, []string{"outcome"})

	// BlocksCutTotal counts blocks the orderer has cut.
	BlocksCutTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "litefab_blocks_cut_total",
		Help: "Total number of blocks cut by the orderer.",
	})

	// BlockTransactionCount observes the number of transactions per cut
	// block.
	BlockTransactionCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "litefab_block_transaction_count",
		Help:    "Number of transactions in each cut block.",
		Buckets: prometheus.LinearBuckets(0, 2, 11),
	})

	// ValidationCodeTotal counts committed transactions by validation
	// code, the ledger-facing outcome taxonomy (spec §4.7).
	ValidationCodeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "litefab_validation_code_total",
		Help: "Total number of transactions committed, labeled by validation code.",
	}, []string{"code"})
)

// Handler returns the HTTP handler serving the default registry in the
// Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
