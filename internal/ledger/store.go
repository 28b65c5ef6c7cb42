// Copyright 2025 Certen Protocol
//
// Append-only block log. Grounded directly on pkg/ledger/store.go's
// KV-interface-over-key-layout pattern: blocks and tx-index entries are one
// JSON blob per record, the hash index and latest pointer hold a big-endian
// block number, and a missing block is reported as ErrBlockNotFound rather
// than nil,nil.

package ledger

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/certen/independant-validator/internal/kvstore"
)

var (
	// ErrBlockNotFound is returned when a requested block number or hash
	// has no corresponding stored block.
	ErrBlockNotFound = errBlockNotFound{}
)

type errBlockNotFound struct{}

func (errBlockNotFound) Error() string { return "ledger: block not found" }

const (
	prefixBlock   = "block:"
	prefixHash    = "hash:"
	keyLatest     = "meta:latest"
	prefixTxIndex = "tx:"
)

func blockKey(n uint64) []byte {
	b := make([]byte, len(prefixBlock)+8)
	copy(b, prefixBlock)
	binary.BigEndian.PutUint64(b[len(prefixBlock):], n)
	return b
}

func hashKey(h string) []byte {
	return []byte(prefixHash + h)
}

func txIndexKey(txID string) []byte {
	return []byte(prefixTxIndex + txID)
}

// txIndexEntry is the value stored for a tx index lookup.
type txIndexEntry struct {
	BlockNum uint64 `json:"blockNum"`
	TxNum    uint64 `json:"txNum"`
}

// Store is the append-only block log for one node.
type Store struct {
	engine kvstore.Engine
}

// New returns a Store over engine.
func New(engine kvstore.Engine) *Store {
	return &Store{engine: engine}
}

// PutBlock persists block keyed by header.number, maintains the
// blockHash->number index, and updates the latest-block-number pointer.
//
// Atomicity: the block body is written before the hash index and latest
// pointer, so a reader never observes a hash-index entry whose block body
// is absent (spec §4.2). The three Set calls are not one atomic batch:
// between them a reader can find the new block by number while the hash
// index and latest pointer do not yet reflect it.
func (s *Store) PutBlock(block Block) error {
	hash, err := HashBlock(block)
	if err != nil {
		return fmt.Errorf("hash block %d: %w", block.Header.Number, err)
	}

	blob, err := json.Marshal(block)
	if err != nil {
		return fmt.Errorf("marshal block %d: %w", block.Header.Number, err)
	}

	if err := s.engine.Set(blockKey(block.Header.Number), blob); err != nil {
		return fmt.Errorf("put block %d: %w", block.Header.Number, err)
	}

	latest := make([]byte, 8)
	binary.BigEndian.PutUint64(latest, block.Header.Number)
	if err := s.engine.Set(hashKey(hash), latest); err != nil {
		return fmt.Errorf("put hash index for block %d: %w", block.Header.Number, err)
	}
	if err := s.engine.Set([]byte(keyLatest), latest); err != nil {
		return fmt.Errorf("put latest pointer for block %d: %w", block.Header.Number, err)
	}
	return nil
}

// GetBlock returns the block at height n.
func (s *Store) GetBlock(n uint64) (*Block, error) {
	b, err := s.engine.Get(blockKey(n))
	if err != nil {
		return nil, fmt.Errorf("get block %d: %w", n, err)
	}
	if b == nil {
		return nil, ErrBlockNotFound
	}
	var block Block
	if err := json.Unmarshal(b, &block); err != nil {
		return nil, fmt.Errorf("unmarshal block %d: %w", n, err)
	}
	return &block, nil
}

// GetBlockByHash resolves a stored block hash to its block.
func (s *Store) GetBlockByHash(hash string) (*Block, error) {
	b, err := s.engine.Get(hashKey(hash))
	if err != nil {
		return nil, fmt.Errorf("get hash index %q: %w", hash, err)
	}
	if b == nil {
		return nil, ErrBlockNotFound
	}
	n := binary.BigEndian.Uint64(b)
	return s.GetBlock(n)
}

// GetLatestBlockNumber returns the highest committed block number, or -1 if
// the ledger is empty.
func (s *Store) GetLatestBlockNumber() (int64, error) {
	b, err := s.engine.Get([]byte(keyLatest))
	if err != nil {
		return 0, fmt.Errorf("get latest pointer: %w", err)
	}
	if b == nil {
		return -1, nil
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// PutTxIndex records a secondary txId -> (blockNum, txNum) index. Optional:
// committers that want tx lookup by id enable this.
func (s *Store) PutTxIndex(txID string, blockNum, txNum uint64) error {
	b, err := json.Marshal(txIndexEntry{BlockNum: blockNum, TxNum: txNum})
	if err != nil {
		return fmt.Errorf("marshal tx index %q: %w", txID, err)
	}
	if err := s.engine.Set(txIndexKey(txID), b); err != nil {
		return fmt.Errorf("put tx index %q: %w", txID, err)
	}
	return nil
}

// GetTxIndex resolves a txId to its (blockNum, txNum) if a secondary index
// entry exists.
func (s *Store) GetTxIndex(txID string) (blockNum, txNum uint64, found bool, err error) {
	b, getErr := s.engine.Get(txIndexKey(txID))
	if getErr != nil {
		return 0, 0, false, fmt.Errorf("get tx index %q: %w", txID, getErr)
	}
	if b == nil {
		return 0, 0, false, nil
	}
	var entry txIndexEntry
	if err := json.Unmarshal(b, &entry); err != nil {
		return 0, 0, false, fmt.Errorf("unmarshal tx index %q: %w", txID, err)
	}
	return entry.BlockNum, entry.TxNum, true, nil
}
