// Copyright 2025 Certen Protocol
//
// Versioned key-value world state: state column family (userKey -> value),
// version column family (userKey -> {blockNum,txNum}). Grounded on
// pkg/ledger/store.go's KV-interface-over-key-layout pattern, generalized
// from a single global namespace to one keyed by channel.

package worldstate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/certen/independant-validator/internal/kvstore"
)

const (
	stateFamily   = "state"
	versionFamily = "version"
)

// Store is a versioned KV scoped to one channel namespace.
type Store struct {
	engine  kvstore.Engine
	channel string
}

// New returns a Store over engine scoped to channel.
func New(engine kvstore.Engine, channel string) *Store {
	return &Store{engine: engine, channel: channel}
}

func (s *Store) stateKey(key string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", stateFamily, s.channel, key))
}

func (s *Store) versionKey(key string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", versionFamily, s.channel, key))
}

// Get returns the current value for key, or nil if never written.
func (s *Store) Get(key string) (*string, error) {
	b, err := s.engine.Get(s.stateKey(key))
	if err != nil {
		return nil, fmt.Errorf("get state %q: %w", key, err)
	}
	if b == nil {
		return nil, nil
	}
	v := string(b)
	return &v, nil
}

// GetVersion returns the version key was last written at, or nil if key has
// never been written.
func (s *Store) GetVersion(key string) (*Version, error) {
	b, err := s.engine.Get(s.versionKey(key))
	if err != nil {
		return nil, fmt.Errorf("get version %q: %w", key, err)
	}
	if b == nil {
		return nil, nil
	}
	var v Version
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("unmarshal version %q: %w", key, err)
	}
	return &v, nil
}

// Put raw-mutates the state family. Only the committer's apply path should
// call this; endorsers read but never write.
func (s *Store) Put(key, value string) error {
	if err := s.engine.Set(s.stateKey(key), []byte(value)); err != nil {
		return fmt.Errorf("put state %q: %w", key, err)
	}
	return nil
}

// Del raw-mutates the state family, removing key.
func (s *Store) Del(key string) error {
	if err := s.engine.Delete(s.stateKey(key)); err != nil {
		return fmt.Errorf("delete state %q: %w", key, err)
	}
	return nil
}

func (s *Store) setVersion(key string, v Version) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal version %q: %w", key, err)
	}
	if err := s.engine.Set(s.versionKey(key), b); err != nil {
		return fmt.Errorf("put version %q: %w", key, err)
	}
	return nil
}

// PutVersioned writes key=value and stamps its version in one step, for
// callers outside the normal simulated-RWSet apply path (the committer's
// direct write of chaincode deployment metadata, spec §4.7 step 4).
func (s *Store) PutVersioned(key, value string, blockNum, txNum uint64) error {
	if err := s.Put(key, value); err != nil {
		return err
	}
	return s.setVersion(key, Version{BlockNum: blockNum, TxNum: txNum})
}

// Apply applies rwSet's writes in order, updating state and stamping each
// written key's version to (blockNum, txNum). Per spec §4.1 this holds
// regardless of whether the write was a put or a delete.
func (s *Store) Apply(rwSet RWSet, blockNum, txNum uint64) error {
	for _, w := range rwSet.Writes {
		if w.Value == nil {
			if err := s.Del(w.Key); err != nil {
				return err
			}
		} else if err := s.Put(w.Key, *w.Value); err != nil {
			return err
		}
		if err := s.setVersion(w.Key, Version{BlockNum: blockNum, TxNum: txNum}); err != nil {
			return err
		}
	}
	return nil
}

// ValidateReadSet checks every recorded read against the store's current
// version for that key, including the ∅-vs-present distinction. The first
// mismatch returns false.
func (s *Store) ValidateReadSet(reads []ReadEntry) (bool, error) {
	for _, r := range reads {
		cur, err := s.GetVersion(r.Key)
		if err != nil {
			return false, err
		}
		if !VersionEqual(cur, r.Version) {
			return false, nil
		}
	}
	return true, nil
}

// KeysByPrefix returns every user key in the channel namespace starting
// with prefix, in ascending order.
func (s *Store) KeysByPrefix(prefix string) ([]string, error) {
	base := fmt.Sprintf("%s:%s:", stateFamily, s.channel)
	start, end := kvstore.PrefixRange([]byte(base + prefix))
	var keys []string
	err := s.engine.Iterate(start, end, func(k, _ []byte) bool {
		keys = append(keys, strings.TrimPrefix(string(k), base))
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("scan prefix %q: %w", prefix, err)
	}
	return keys, nil
}
