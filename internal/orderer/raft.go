// Copyright 2025 Certen Protocol
//
// Raft consensus is left as a non-functional stub: the spec calls for a
// single working consensus
// mode (Solo) plus the shape of a future multi-node mode, not a second
// working implementation (spec §4.6 Non-goals).

package orderer

import "github.com/certen/independant-validator/internal/ledger"

// RaftState is a node's position in the (unimplemented) Raft state
// machine.
type RaftState string

const (
	RaftFollower  RaftState = "FOLLOWER"
	RaftCandidate RaftState = "CANDIDATE"
	RaftLeader    RaftState = "LEADER"
)

// RaftEngine is the interface a future multi-node ordering service would
// satisfy. No type in this module implements it, and no config, server,
// or CLI code refers to it; Solo is the only consensus mode wired up.
type RaftEngine interface {
	State() RaftState
	Submit(env ledger.TransactionEnvelope) error
}
