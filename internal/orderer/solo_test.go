package orderer

import (
	"sync"
	"testing"
	"time"

	icrypto "github.com/certen/independant-validator/internal/crypto"
	"github.com/certen/independant-validator/internal/kvstore"
	"github.com/certen/independant-validator/internal/ledger"
)

func newTestEnvelope(txID string) ledger.TransactionEnvelope {
	return ledger.TransactionEnvelope{TxID: txID, CreatorID: "alice-client", CreatorOrgID: "Org1"}
}

type commitRecorder struct {
	mu     sync.Mutex
	blocks []ledger.Block
}

func (r *commitRecorder) onCommit(block ledger.Block) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocks = append(r.blocks, block)
}

func (r *commitRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blocks)
}

func newTestSolo(t *testing.T, cfg Config, recorder *commitRecorder) (*Solo, *ledger.Store) {
	t.Helper()
	key, err := icrypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	ledgerStore := ledger.New(kvstore.OpenMemDB())
	var onCommit func(ledger.Block)
	if recorder != nil {
		onCommit = recorder.onCommit
	}
	return New(cfg, ledgerStore, key, "orderer1", onCommit), ledgerStore
}

func TestSubmitCutsWhenBatchReachesMaxSize(t *testing.T) {
	recorder := &commitRecorder{}
	s, ledgerStore := newTestSolo(t, Config{MaxBatchSize: 2, BatchTimeout: time.Hour}, recorder)

	if err := s.Submit(newTestEnvelope("tx1")); err != nil {
		t.Fatalf("Submit tx1: %v", err)
	}
	if recorder.count() != 0 {
		t.Fatalf("expected no cut yet after 1/2 envelopes, got %d blocks", recorder.count())
	}
	if err := s.Submit(newTestEnvelope("tx2")); err != nil {
		t.Fatalf("Submit tx2: %v", err)
	}
	if recorder.count() != 1 {
		t.Fatalf("expected exactly one cut at batch size, got %d blocks", recorder.count())
	}

	latest, err := ledgerStore.GetLatestBlockNumber()
	if err != nil {
		t.Fatalf("GetLatestBlockNumber: %v", err)
	}
	if latest != 0 {
		t.Errorf("expected first cut block to be number 0, got %d", latest)
	}
	block, err := ledgerStore.GetBlock(0)
	if err != nil {
		t.Fatalf("GetBlock: %v", err)
	}
	if len(block.Transactions) != 2 {
		t.Errorf("expected 2 transactions in cut block, got %d", len(block.Transactions))
	}
	if block.Header.PreviousHash != ledger.ZeroHash {
		t.Errorf("expected genesis block previousHash to be ZeroHash, got %q", block.Header.PreviousHash)
	}
}

func TestSubmitCutsByTimeout(t *testing.T) {
	recorder := &commitRecorder{}
	s, _ := newTestSolo(t, Config{MaxBatchSize: 100, BatchTimeout: 20 * time.Millisecond}, recorder)

	if err := s.Submit(newTestEnvelope("tx1")); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for recorder.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if recorder.count() != 1 {
		t.Fatalf("expected batch timeout to cut a partial block, got %d blocks", recorder.count())
	}
}

func TestCutOnEmptyBatchIsNoop(t *testing.T) {
	s, ledgerStore := newTestSolo(t, DefaultConfig(), nil)
	if err := s.Cut(); err != nil {
		t.Fatalf("Cut on empty batch: %v", err)
	}
	latest, err := ledgerStore.GetLatestBlockNumber()
	if err != nil {
		t.Fatalf("GetLatestBlockNumber: %v", err)
	}
	if latest != -1 {
		t.Errorf("expected no block cut, got latest=%d", latest)
	}
}

func TestMultipleCutsChainPreviousHash(t *testing.T) {
	s, ledgerStore := newTestSolo(t, Config{MaxBatchSize: 1, BatchTimeout: time.Hour}, nil)

	if err := s.Submit(newTestEnvelope("tx1")); err != nil {
		t.Fatalf("Submit tx1: %v", err)
	}
	if err := s.Submit(newTestEnvelope("tx2")); err != nil {
		t.Fatalf("Submit tx2: %v", err)
	}
	if err := s.Submit(newTestEnvelope("tx3")); err != nil {
		t.Fatalf("Submit tx3: %v", err)
	}

	block0, err := ledgerStore.GetBlock(0)
	if err != nil {
		t.Fatalf("GetBlock(0): %v", err)
	}
	block1, err := ledgerStore.GetBlock(1)
	if err != nil {
		t.Fatalf("GetBlock(1): %v", err)
	}
	block2, err := ledgerStore.GetBlock(2)
	if err != nil {
		t.Fatalf("GetBlock(2): %v", err)
	}

	hash0, err := ledger.HashBlock(*block0)
	if err != nil {
		t.Fatalf("HashBlock(0): %v", err)
	}
	hash1, err := ledger.HashBlock(*block1)
	if err != nil {
		t.Fatalf("HashBlock(1): %v", err)
	}

	if block0.Header.PreviousHash != ledger.ZeroHash {
		t.Errorf("block 0 previousHash = %q, want ZeroHash", block0.Header.PreviousHash)
	}
	if block1.Header.PreviousHash != hash0 {
		t.Errorf("block 1 previousHash = %q, want hash of block 0 (%q)", block1.Header.PreviousHash, hash0)
	}
	if block2.Header.PreviousHash != hash1 {
		t.Errorf("block 2 previousHash = %q, want hash of block 1 (%q)", block2.Header.PreviousHash, hash1)
	}
}
