// Copyright 2025 Certen Protocol
//
// Route wiring for peer and orderer processes, grounded on main.go's
// mux.HandleFunc-per-endpoint registration style.

package server

import (
	"encoding/json"
	"net/http"

	"github.com/certen/independant-validator/internal/ledger"
	"github.com/certen/independant-validator/internal/metrics"
)

// NewPeerMux builds the HTTP mux for a peer process: proposal, submit,
// query, block commit intake, broadcast intake, health, and metrics.
// /block is the spec-mandated commit-intake endpoint (spec §6); the
// block-by-number lookup lives at /ledger/block, outside the documented
// wire contract.
func NewPeerMux(peer *PeerHandlers, broadcast *PeerBroadcastHandlers, ledgerStore *ledger.Store) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/proposal", peer.HandleProposal)
	mux.HandleFunc("/submit", peer.HandleSubmit)
	mux.HandleFunc("/query", peer.HandleQuery)
	mux.HandleFunc("/block", broadcast.HandleCommit)
	mux.HandleFunc("/ledger/block", peer.HandleBlockQuery(ledgerStore))
	mux.HandleFunc("/broadcast", broadcast.HandleBroadcast)
	mux.HandleFunc("/health", handleHealth)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// NewOrdererMux builds the HTTP mux for an orderer process: submit,
// health, and metrics. Orderers don't serve proposal/query/block — those
// are peer-only surfaces.
func NewOrdererMux(orderer *OrdererHandlers) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/submit", orderer.HandleSubmit)
	mux.HandleFunc("/health", handleHealth)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
