package ledger

import (
	"errors"
	"testing"

	"github.com/certen/independant-validator/internal/kvstore"
)

func TestGetLatestBlockNumberEmptyLedger(t *testing.T) {
	s := New(kvstore.OpenMemDB())
	n, err := s.GetLatestBlockNumber()
	if err != nil {
		t.Fatalf("GetLatestBlockNumber: %v", err)
	}
	if n != -1 {
		t.Errorf("got %d, want -1", n)
	}
}

func TestPutBlockThenGetBlock(t *testing.T) {
	s := New(kvstore.OpenMemDB())
	block := Block{Header: BlockHeader{Number: 0, PreviousHash: ZeroHash, DataHash: "d"}, Metadata: BlockMetadata{OrdererID: "o1"}}

	if err := s.PutBlock(block); err != nil {
		t.Fatalf("PutBlock: %v", err)
	}

	got, err := s.GetBlock(0)
	if err != nil {
		t.Fatalf("GetBlock: %v", err)
	}
	if got.Header.Number != 0 || got.Metadata.OrdererID != "o1" {
		t.Errorf("got %+v", got)
	}

	latest, err := s.GetLatestBlockNumber()
	if err != nil {
		t.Fatalf("GetLatestBlockNumber: %v", err)
	}
	if latest != 0 {
		t.Errorf("got %d, want 0", latest)
	}
}

func TestGetBlockNotFound(t *testing.T) {
	s := New(kvstore.OpenMemDB())
	_, err := s.GetBlock(5)
	if !errors.Is(err, ErrBlockNotFound) {
		t.Errorf("got %v, want ErrBlockNotFound", err)
	}
}

func TestGetBlockByHash(t *testing.T) {
	s := New(kvstore.OpenMemDB())
	block := Block{Header: BlockHeader{Number: 3, PreviousHash: ZeroHash, DataHash: "d"}, Metadata: BlockMetadata{OrdererID: "o1"}}
	if err := s.PutBlock(block); err != nil {
		t.Fatalf("PutBlock: %v", err)
	}

	hash, err := HashBlock(block)
	if err != nil {
		t.Fatalf("HashBlock: %v", err)
	}
	got, err := s.GetBlockByHash(hash)
	if err != nil {
		t.Fatalf("GetBlockByHash: %v", err)
	}
	if got.Header.Number != 3 {
		t.Errorf("got block %d, want 3", got.Header.Number)
	}
}

func TestTxIndexRoundTrip(t *testing.T) {
	s := New(kvstore.OpenMemDB())
	if err := s.PutTxIndex("tx1", 2, 5); err != nil {
		t.Fatalf("PutTxIndex: %v", err)
	}
	blockNum, txNum, found, err := s.GetTxIndex("tx1")
	if err != nil {
		t.Fatalf("GetTxIndex: %v", err)
	}
	if !found || blockNum != 2 || txNum != 5 {
		t.Errorf("got (%d, %d, %v)", blockNum, txNum, found)
	}
}

func TestGetTxIndexNotFound(t *testing.T) {
	s := New(kvstore.OpenMemDB())
	_, _, found, err := s.GetTxIndex("ghost")
	if err != nil {
		t.Fatalf("GetTxIndex: %v", err)
	}
	if found {
		t.Error("expected found=false for unknown tx id")
	}
}
