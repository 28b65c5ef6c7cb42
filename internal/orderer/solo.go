// Copyright 2025 Certen Protocol
//
// Solo consensus: a single-node block cutter that batches endorsed
// envelopes by size or timeout and chains them onto the ledger with a
// real previousHash lookup (spec §9 fixes the "hardcoded previousHash"
// open bug named in the source material). Grounded on
// pkg/consensus/abci_validator.go's accept-then-cut loop shape.

package orderer

import (
	"fmt"
	"sync"
	"time"

	icrypto "github.com/certen/independant-validator/internal/crypto"
	"github.com/certen/independant-validator/internal/ledger"
	"github.com/certen/independant-validator/internal/metrics"
)

// Config tunes the Solo engine's batching behavior.
type Config struct {
	// MaxBatchSize cuts a block once this many envelopes are pending.
	MaxBatchSize int
	// BatchTimeout cuts a partial block after this much time elapses
	// since the first envelope in the pending batch arrived.
	BatchTimeout time.Duration
}

// DefaultConfig mirrors the spec's suggested defaults (§4.5).
func DefaultConfig() Config {
	return Config{MaxBatchSize: 10, BatchTimeout: 2 * time.Second}
}

// Solo is a single-node orderer: the only consensus mode this module
// implements end to end (spec §4.6 keeps Raft as an interface-only stub).
type Solo struct {
	cfg        Config
	ledgerStore *ledger.Store
	signingKey *icrypto.PrivateKey
	ordererID  string

	mu      sync.Mutex
	pending []ledger.TransactionEnvelope
	timer   *time.Timer

	onCommit func(ledger.Block)
}

// New returns a Solo engine appending to ledgerStore and signing cut
// blocks as ordererID. onCommit, if non-nil, is invoked synchronously
// after each block is persisted (the committer's entry point).
func New(cfg Config, ledgerStore *ledger.Store, signingKey *icrypto.PrivateKey, ordererID string, onCommit func(ledger.Block)) *Solo {
	return &Solo{
		cfg:         cfg,
		ledgerStore: ledgerStore,
		signingKey:  signingKey,
		ordererID:   ordererID,
		onCommit:    onCommit,
	}
}

// Submit enqueues an endorsed envelope. It triggers an immediate cut if
// the batch reaches MaxBatchSize, and arms the timeout timer for the
// first envelope of a new batch.
func (s *Solo) Submit(env ledger.TransactionEnvelope) error {
	s.mu.Lock()
	s.pending = append(s.pending, env)
	if len(s.pending) == 1 {
		s.armTimer()
	}
	cut := len(s.pending) >= s.cfg.MaxBatchSize
	s.mu.Unlock()

	if cut {
		return s.Cut()
	}
	return nil
}

// armTimer must be called with s.mu held.
func (s *Solo) armTimer() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.cfg.BatchTimeout, func() {
		if err := s.Cut(); err != nil {
			fmt.Printf("❌ orderer: timeout cut failed: %v\n", err)
		}
	})
}

// Cut closes the current batch (if non-empty) into a new signed block
// and appends it to the ledger. Safe to call concurrently with Submit
// and with the timeout callback; a batch can only be cut once.
func (s *Solo) Cut() error {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	block, err := s.buildBlock(batch)
	if err != nil {
		return fmt.Errorf("orderer: build block: %w", err)
	}
	if err := s.ledgerStore.PutBlock(*block); err != nil {
		return fmt.Errorf("orderer: persist block %d: %w", block.Header.Number, err)
	}
	fmt.Printf("📋 orderer: cut block %d with %d tx\n", block.Header.Number, len(block.Transactions))
	metrics.BlocksCutTotal.Inc()
	metrics.BlockTransactionCount.Observe(float64(len(block.Transactions)))
	if s.onCommit != nil {
		s.onCommit(*block)
	}
	return nil
}

// buildBlock assembles and signs a block over batch, resolving
// previousHash from the real ledger tail rather than a hardcoded value.
func (s *Solo) buildBlock(batch []ledger.TransactionEnvelope) (*ledger.Block, error) {
	latest, err := s.ledgerStore.GetLatestBlockNumber()
	if err != nil {
		return nil, fmt.Errorf("get latest block number: %w", err)
	}

	var number uint64
	previousHash := ledger.ZeroHash
	if latest >= 0 {
		number = uint64(latest) + 1
		prevBlock, err := s.ledgerStore.GetBlock(uint64(latest))
		if err != nil {
			return nil, fmt.Errorf("get previous block %d: %w", latest, err)
		}
		previousHash, err = ledger.HashBlock(*prevBlock)
		if err != nil {
			return nil, fmt.Errorf("hash previous block %d: %w", latest, err)
		}
	}

	dataHash, err := ledger.HashTransactions(batch)
	if err != nil {
		return nil, fmt.Errorf("hash transactions: %w", err)
	}
	header := ledger.BlockHeader{Number: number, PreviousHash: previousHash, DataHash: dataHash}

	timestamp := ledger.NowISO8601(time.Now())
	signedBytes, err := ledger.CanonicalSignedMetadata(header, batch, timestamp, s.ordererID)
	if err != nil {
		return nil, fmt.Errorf("canonicalize signed metadata: %w", err)
	}
	sig, err := s.signingKey.Sign(signedBytes)
	if err != nil {
		return nil, fmt.Errorf("sign block metadata: %w", err)
	}

	return &ledger.Block{
		Header:       header,
		Transactions: batch,
		Metadata: ledger.BlockMetadata{
			Timestamp:        timestamp,
			OrdererID:        s.ordererID,
			OrdererSignature: sig,
		},
	}, nil
}
