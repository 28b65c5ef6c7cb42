// Copyright 2025 Certen Protocol
//
// Chaincode deployment metadata (version, endorsement policy), stored as a
// reserved world-state key so it rides the same MVCC versioning machinery
// as any other key without a separate store.

package ccmeta

import (
	"encoding/json"
	"fmt"

	"github.com/certen/independant-validator/internal/ledger"
	"github.com/certen/independant-validator/internal/worldstate"
)

// Metadata describes a deployed chaincode.
type Metadata struct {
	ChaincodeID       string                     `json:"chaincodeId"`
	Version           string                     `json:"version"`
	EndorsementPolicy *ledger.EndorsementPolicy `json:"endorsementPolicy"`
}

func key(chaincodeID string) string {
	return "$ccmeta/" + chaincodeID
}

// Exists reports whether chaincodeId has been deployed.
func Exists(store *worldstate.Store, chaincodeID string) (bool, error) {
	v, err := store.Get(key(chaincodeID))
	if err != nil {
		return false, fmt.Errorf("check chaincode metadata %q: %w", chaincodeID, err)
	}
	return v != nil, nil
}

// Load reads chaincodeId's deployment metadata, if any.
func Load(store *worldstate.Store, chaincodeID string) (*Metadata, error) {
	v, err := store.Get(key(chaincodeID))
	if err != nil {
		return nil, fmt.Errorf("load chaincode metadata %q: %w", chaincodeID, err)
	}
	if v == nil {
		return nil, nil
	}
	var m Metadata
	if err := json.Unmarshal([]byte(*v), &m); err != nil {
		return nil, fmt.Errorf("unmarshal chaincode metadata %q: %w", chaincodeID, err)
	}
	return &m, nil
}

// Save writes chaincodeId's deployment metadata, versioned at (blockNum,
// txNum), the committer's direct write on a successful DEPLOY (spec §4.7
// step 4).
func Save(store *worldstate.Store, meta Metadata, blockNum, txNum uint64) error {
	b, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal chaincode metadata %q: %w", meta.ChaincodeID, err)
	}
	return store.PutVersioned(key(meta.ChaincodeID), string(b), blockNum, txNum)
}
