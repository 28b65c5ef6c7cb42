// Copyright 2025 Certen Protocol
//
// Peer-facing HTTP API: proposal simulation, submission forwarding to an
// orderer, and world-state/ledger queries. Handler-struct-with-constructor
// shape grounded on pkg/server/ledger_handlers.go.

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/certen/independant-validator/internal/apierror"
	"github.com/certen/independant-validator/internal/endorser"
	"github.com/certen/independant-validator/internal/ledger"
	"github.com/certen/independant-validator/internal/worldstate"
)

// PeerHandlers serves a peer node's HTTP API.
type PeerHandlers struct {
	endorser *endorser.Endorser
	store    *worldstate.Store

	ordererAddresses []string
	nextOrderer      uint64
	httpClient       *http.Client
}

// NewPeerHandlers returns PeerHandlers forwarding submissions round-robin
// across ordererAddresses (spec §9: a configurable list replaces the
// single hardcoded orderer address).
func NewPeerHandlers(e *endorser.Endorser, store *worldstate.Store, ordererAddresses []string) *PeerHandlers {
	return &PeerHandlers{
		endorser:         e,
		store:            store,
		ordererAddresses: ordererAddresses,
		httpClient:       &http.Client{Timeout: 5 * time.Second},
	}
}

// HandleProposal handles POST /proposal: simulate and endorse.
func (h *PeerHandlers) HandleProposal(w http.ResponseWriter, r *http.Request) {
	var p endorser.Proposal
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		apierror.Write(w, apierror.BadRequest(fmt.Sprintf("decode proposal: %v", err)))
		return
	}

	resp, apiErr := h.endorser.Endorse(p)
	if apiErr != nil {
		apierror.Write(w, apiErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// HandleSubmit handles POST /submit: forward a fully endorsed envelope to
// the next configured orderer in round-robin order and relay that
// orderer's status code and body.
func (h *PeerHandlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if len(h.ordererAddresses) == 0 {
		apierror.Write(w, apierror.StorageError("no orderer addresses configured"))
		return
	}

	var env ledger.TransactionEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		apierror.Write(w, apierror.BadRequest(fmt.Sprintf("decode envelope: %v", err)))
		return
	}

	idx := atomic.AddUint64(&h.nextOrderer, 1) - 1
	addr := h.ordererAddresses[idx%uint64(len(h.ordererAddresses))]

	body, err := json.Marshal(env)
	if err != nil {
		apierror.Write(w, apierror.BadRequest(fmt.Sprintf("marshal envelope: %v", err)))
		return
	}

	resp, err := h.httpClient.Post(addr+"/submit", "application/json", bytes.NewReader(body))
	if err != nil {
		apierror.Write(w, apierror.StorageError(fmt.Sprintf("forward to orderer %s: %v", addr, err)))
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

// HandleQuery handles GET /query?key=K: 200 {value:string|null}, 400 if key
// is missing. A key with no recorded value is not an error (spec §6) — it
// reports as a 200 with a null value, the same as a null-valued state read.
func (h *PeerHandlers) HandleQuery(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		apierror.Write(w, apierror.BadRequest("query requires a key parameter"))
		return
	}

	value, err := h.store.Get(key)
	if err != nil {
		apierror.Write(w, apierror.StorageError(fmt.Sprintf("query %q: %v", key, err)))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"key": key, "value": value})
}

// HandleBlockQuery handles GET /ledger/block?number=N: a convenience lookup
// outside the spec's documented wire contract, kept separate from the
// spec-mandated POST /block commit-intake endpoint (see HandleCommit).
func (h *PeerHandlers) HandleBlockQuery(ledgerStore *ledger.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		numberParam := r.URL.Query().Get("number")
		var number uint64
		if numberParam != "" {
			if _, err := fmt.Sscanf(numberParam, "%d", &number); err != nil {
				apierror.Write(w, apierror.BadRequest("invalid number parameter"))
				return
			}
		} else {
			latest, err := ledgerStore.GetLatestBlockNumber()
			if err != nil {
				apierror.Write(w, apierror.StorageError(err.Error()))
				return
			}
			if latest < 0 {
				apierror.Write(w, apierror.NotFound("ledger is empty"))
				return
			}
			number = uint64(latest)
		}

		block, err := ledgerStore.GetBlock(number)
		if err != nil {
			apierror.Write(w, apierror.NotFound(fmt.Sprintf("block %d: %v", number, err)))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(block)
	}
}
