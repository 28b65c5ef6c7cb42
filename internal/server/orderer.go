// Copyright 2025 Certen Protocol
//
// Orderer-facing HTTP API: transaction submission and block broadcast
// intake for a peer subscribed to an orderer.

package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/certen/independant-validator/internal/apierror"
	"github.com/certen/independant-validator/internal/ledger"
)

// Solo is the subset of internal/orderer.Solo the HTTP layer depends on.
type Solo interface {
	Submit(env ledger.TransactionEnvelope) error
}

// BlockCommitter is the subset of internal/committer.Committer the HTTP
// layer depends on to accept a broadcast block.
type BlockCommitter interface {
	CommitBlock(block ledger.Block) error
}

// OrdererHandlers serves an orderer node's HTTP API.
type OrdererHandlers struct {
	engine Solo
}

// NewOrdererHandlers returns OrdererHandlers submitting envelopes to engine.
func NewOrdererHandlers(engine Solo) *OrdererHandlers {
	return &OrdererHandlers{engine: engine}
}

// HandleSubmit handles POST /submit: enqueue an endorsed envelope for
// ordering. 200 {"status":"submitted"} per spec §6.
func (h *OrdererHandlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var env ledger.TransactionEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		apierror.Write(w, apierror.BadRequest(fmt.Sprintf("decode envelope: %v", err)))
		return
	}
	if err := h.engine.Submit(env); err != nil {
		apierror.Write(w, apierror.StorageError(fmt.Sprintf("submit envelope: %v", err)))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, `{"status":"submitted"}`)
}

// PeerBroadcastHandlers serves a peer's intake of blocks pushed by an
// orderer's Broadcaster.
type PeerBroadcastHandlers struct {
	committer BlockCommitter
}

// NewPeerBroadcastHandlers returns handlers committing broadcast blocks
// via committer.
func NewPeerBroadcastHandlers(committer BlockCommitter) *PeerBroadcastHandlers {
	return &PeerBroadcastHandlers{committer: committer}
}

// HandleBroadcast handles POST /broadcast: accept and commit a block
// pushed from the orderer.
func (h *PeerBroadcastHandlers) HandleBroadcast(w http.ResponseWriter, r *http.Request) {
	var block ledger.Block
	if err := json.NewDecoder(r.Body).Decode(&block); err != nil {
		apierror.Write(w, apierror.BadRequest(fmt.Sprintf("decode block: %v", err)))
		return
	}
	if err := h.committer.CommitBlock(block); err != nil {
		apierror.Write(w, apierror.StorageError(fmt.Sprintf("commit block %d: %v", block.Header.Number, err)))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"blockNumber":%d,"status":"committed"}`, block.Header.Number)
}

// HandleCommit handles POST /block: the spec-mandated commit-intake
// endpoint (200 {"status":"committed"}, 5xx on apply error).
func (h *PeerBroadcastHandlers) HandleCommit(w http.ResponseWriter, r *http.Request) {
	var block ledger.Block
	if err := json.NewDecoder(r.Body).Decode(&block); err != nil {
		apierror.Write(w, apierror.BadRequest(fmt.Sprintf("decode block: %v", err)))
		return
	}
	if err := h.committer.CommitBlock(block); err != nil {
		apierror.Write(w, apierror.StorageError(fmt.Sprintf("commit block %d: %v", block.Header.Number, err)))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, `{"status":"committed"}`)
}
