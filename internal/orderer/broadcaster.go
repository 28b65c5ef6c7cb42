// Copyright 2025 Certen Protocol
//
// Broadcaster: best-effort delivery of committed blocks to configured peer
// addresses. A slow or down peer never blocks ordering (spec §4.6); it
// simply misses the block. Delivery is not retried, and this module has
// no catch-up path for a peer that missed a block.

package orderer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/certen/independant-validator/internal/ledger"
)

// Broadcaster posts committed blocks to a fixed set of peer addresses.
type Broadcaster struct {
	peerAddresses []string
	client        *http.Client
}

// NewBroadcaster returns a Broadcaster targeting peerAddresses, each a
// base URL like "http://localhost:7051".
func NewBroadcaster(peerAddresses []string) *Broadcaster {
	return &Broadcaster{
		peerAddresses: peerAddresses,
		client:        &http.Client{Timeout: 5 * time.Second},
	}
}

// Broadcast posts block to every configured peer concurrently, logging
// (never returning) per-peer failures.
func (b *Broadcaster) Broadcast(block ledger.Block) {
	body, err := json.Marshal(block)
	if err != nil {
		fmt.Printf("❌ broadcaster: marshal block %d: %v\n", block.Header.Number, err)
		return
	}

	for _, addr := range b.peerAddresses {
		go b.post(addr, block.Header.Number, body)
	}
}

func (b *Broadcaster) post(addr string, blockNumber uint64, body []byte) {
	resp, err := b.client.Post(addr+"/broadcast", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("⚠️ broadcaster: %s unreachable for block %d: %v\n", addr, blockNumber, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		fmt.Printf("⚠️ broadcaster: %s rejected block %d with status %d\n", addr, blockNumber, resp.StatusCode)
		return
	}
	fmt.Printf("✅ broadcaster: delivered block %d to %s\n", blockNumber, addr)
}
