// Copyright 2025 Certen Protocol
//
// Embedded KV engine backing both the ledger store and the world-state
// store. Wraps cometbft-db's goleveldb backend the way pkg/kvdb/adapter.go
// wraps CometBFT's dbm.DB for LedgerStore, generalized to also support
// ordered prefix iteration for worldstate.keysByPrefix.

package kvstore

import (
	"fmt"

	dbm "github.com/cometbft/cometbft-db"
)

// Engine is a durable, ordered byte-oriented KV store. Both internal/ledger
// and internal/worldstate are built against this interface so callers can
// swap in another dbm.DB-compatible backend without touching either store.
type Engine interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	// Iterate calls fn for every key in [start, end) in ascending order,
	// stopping early if fn returns false.
	Iterate(start, end []byte, fn func(key, value []byte) bool) error
	Close() error
}

// dbEngine adapts a cometbft-db dbm.DB to the Engine interface.
type dbEngine struct {
	db dbm.DB
}

// OpenGoLevelDB opens (creating if absent) a goleveldb-backed engine rooted
// at dataDir, the durable default for a node's ledger/ and worldstate/
// directories.
func OpenGoLevelDB(name, dataDir string) (Engine, error) {
	db, err := dbm.NewGoLevelDB(name, dataDir)
	if err != nil {
		return nil, fmt.Errorf("open goleveldb %q in %q: %w", name, dataDir, err)
	}
	return &dbEngine{db: db}, nil
}

// OpenMemDB opens a volatile in-memory engine, used by tests and by
// components that don't need durability across restarts.
func OpenMemDB() Engine {
	return &dbEngine{db: dbm.NewMemDB()}
}

func (e *dbEngine) Get(key []byte) ([]byte, error) {
	v, err := e.db.Get(key)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (e *dbEngine) Set(key, value []byte) error {
	return e.db.SetSync(key, value)
}

func (e *dbEngine) Delete(key []byte) error {
	return e.db.DeleteSync(key)
}

func (e *dbEngine) Iterate(start, end []byte, fn func(key, value []byte) bool) error {
	it, err := e.db.Iterator(start, end)
	if err != nil {
		return err
	}
	defer it.Close()
	for ; it.Valid(); it.Next() {
		if !fn(it.Key(), it.Value()) {
			break
		}
	}
	return it.Error()
}

func (e *dbEngine) Close() error {
	return e.db.Close()
}

// PrefixRange returns the [start, end) bounds that select every key with
// the given prefix under dbm.DB's iterator semantics (end is exclusive, one
// past the last byte of prefix incremented).
func PrefixRange(prefix []byte) (start, end []byte) {
	start = append([]byte{}, prefix...)
	end = append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return start, end[:i+1]
		}
	}
	// prefix was all 0xff bytes: no upper bound.
	return start, nil
}
