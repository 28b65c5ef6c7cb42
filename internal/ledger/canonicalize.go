// Copyright 2025 Certen Protocol
//
// Canonical signed-payload construction for the proposal/envelope/block
// protocol. Centralizing these here keeps producer and verifier agreeing on
// byte-identical input, the "only interop invariant that matters" (spec §3).

package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/certen/independant-validator/internal/canonical"
	"github.com/certen/independant-validator/internal/worldstate"
)

// CanonicalProposal builds the bytes a client signs (and an endorser
// verifies) for a proposal: canonical({txId, creatorId, creatorOrgId,
// creatorPubKey, payload}).
func CanonicalProposal(txID, creatorID, creatorOrgID, creatorPubKey string, payload TxPayload) ([]byte, error) {
	return canonical.Marshal(canonical.Map(
		canonical.Pair("txId", txID),
		canonical.Pair("creatorId", creatorID),
		canonical.Pair("creatorOrgId", creatorOrgID),
		canonical.Pair("creatorPubKey", creatorPubKey),
		canonical.Pair("payload", payload),
	))
}

// CanonicalEndorsementPayload builds the bytes an endorser signs (and the
// committer verifies per endorsement): canonical({proposal:{txId,payload},
// rwSet, result}).
func CanonicalEndorsementPayload(txID string, payload TxPayload, rwSet worldstate.RWSet, result string) ([]byte, error) {
	return canonical.Marshal(canonical.Map(
		canonical.Pair("proposal", canonical.Map(
			canonical.Pair("txId", txID),
			canonical.Pair("payload", payload),
		)),
		canonical.Pair("rwSet", rwSet),
		canonical.Pair("result", result),
	))
}

// CanonicalEnvelope builds the bytes a client signs as ClientSignature:
// canonical(all envelope fields except itself).
func CanonicalEnvelope(env TransactionEnvelope) ([]byte, error) {
	return canonical.Marshal(canonical.Map(
		canonical.Pair("txId", env.TxID),
		canonical.Pair("creatorId", env.CreatorID),
		canonical.Pair("creatorOrgId", env.CreatorOrgID),
		canonical.Pair("creatorPubKey", env.CreatorPubKey),
		canonical.Pair("payload", env.Payload),
		canonical.Pair("rwSet", env.RWSet),
		canonical.Pair("result", env.Result),
		canonical.Pair("endorsements", env.Endorsements),
	))
}

// CanonicalSignedMetadata builds the bytes the orderer signs as
// OrdererSignature: canonical({header, transactions, metadata:{timestamp,
// ordererId}}) — explicitly excluding metadata.validationInfo so the
// committer's later mutation of that field doesn't invalidate the
// signature (spec §9).
func CanonicalSignedMetadata(header BlockHeader, transactions []TransactionEnvelope, timestamp, ordererID string) ([]byte, error) {
	return canonical.Marshal(canonical.Map(
		canonical.Pair("header", header),
		canonical.Pair("transactions", transactions),
		canonical.Pair("metadata", canonical.Map(
			canonical.Pair("timestamp", timestamp),
			canonical.Pair("ordererId", ordererID),
		)),
	))
}

// HashTransactions returns the block header's dataHash: H(canonical_concat
// of each transaction's canonical encoding), hex-encoded.
func HashTransactions(transactions []TransactionEnvelope) (string, error) {
	h := sha256.New()
	for i, tx := range transactions {
		b, err := canonical.Marshal(tx)
		if err != nil {
			return "", fmt.Errorf("canonicalize tx %d: %w", i, err)
		}
		h.Write(b)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBlock returns the stored block hash used by the ledger's hash index:
// H(canonical(header) ‖ concat(canonical(tx)) ‖ canonical(metadata)).
func HashBlock(b Block) (string, error) {
	h := sha256.New()
	headerBytes, err := canonical.Marshal(b.Header)
	if err != nil {
		return "", fmt.Errorf("canonicalize header: %w", err)
	}
	h.Write(headerBytes)
	for i, tx := range b.Transactions {
		txBytes, err := canonical.Marshal(tx)
		if err != nil {
			return "", fmt.Errorf("canonicalize tx %d: %w", i, err)
		}
		h.Write(txBytes)
	}
	metaBytes, err := canonical.Marshal(b.Metadata)
	if err != nil {
		return "", fmt.Errorf("canonicalize metadata: %w", err)
	}
	h.Write(metaBytes)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ZeroHash is previousHash for the genesis block (number 0): the hex
// encoding of 32 zero bytes, so hash-chain continuity checks treat genesis
// uniformly with every other block.
var ZeroHash = hex.EncodeToString(make([]byte, 32))
