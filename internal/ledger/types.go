// Copyright 2025 Certen Protocol

package ledger

import (
	"time"

	icrypto "github.com/certen/independant-validator/internal/crypto"
	"github.com/certen/independant-validator/internal/worldstate"
)

// TxType distinguishes a deploy from an invoke transaction.
type TxType string

const (
	TxDeploy TxType = "DEPLOY"
	TxInvoke TxType = "INVOKE"
)

// EndorsementPolicyType is the boolean predicate kind over endorsing orgs.
type EndorsementPolicyType string

const (
	PolicyAny      EndorsementPolicyType = "ANY"
	PolicyAll      EndorsementPolicyType = "ALL"
	PolicyMajority EndorsementPolicyType = "MAJORITY"
)

// EndorsementPolicy is a boolean predicate over the set of endorsing orgs.
type EndorsementPolicy struct {
	Type EndorsementPolicyType `json:"type"`
	Orgs []string              `json:"orgs"`
}

// TxPayload is the application-visible content of a transaction.
type TxPayload struct {
	Type              TxType             `json:"type"`
	ChaincodeID       string             `json:"chaincodeId"`
	FunctionName      string             `json:"functionName,omitempty"`
	Args              []string           `json:"args,omitempty"`
	EndorsementPolicy *EndorsementPolicy `json:"endorsementPolicy,omitempty"`
}

// Endorsement is a peer's signed attestation over (proposal, rwSet, result).
type Endorsement struct {
	EndorserID    string            `json:"endorserId"`
	EndorserOrgID string            `json:"endorserOrgId"`
	Signature     icrypto.Signature `json:"signature"`
}

// TransactionEnvelope is a fully endorsed, client-signed transaction ready
// for ordering.
type TransactionEnvelope struct {
	TxID            string            `json:"txId"`
	CreatorID       string            `json:"creatorId"`
	CreatorOrgID    string            `json:"creatorOrgId"`
	CreatorPubKey   string            `json:"creatorPubKey"` // PEM
	Payload         TxPayload         `json:"payload"`
	RWSet           worldstate.RWSet  `json:"rwSet"`
	Result          string            `json:"result,omitempty"`
	Endorsements    []Endorsement     `json:"endorsements"`
	ClientSignature icrypto.Signature `json:"clientSignature"`
}

// ValidationCode is the outcome of committer validation for one transaction.
type ValidationCode string

const (
	CodeValid                     ValidationCode = "VALID"
	CodeEndorsementPolicyFailure  ValidationCode = "ENDORSEMENT_POLICY_FAILURE"
	CodeMVCCReadConflict          ValidationCode = "MVCC_READ_CONFLICT"
	CodeBadPayload                ValidationCode = "BAD_PAYLOAD"
	CodeMSPValidationFailed       ValidationCode = "MSP_VALIDATION_FAILED"
)

// ValidationRecord is the committer's verdict for one transaction in a
// block, stored in BlockMetadata.ValidationInfo.
type ValidationRecord struct {
	TxID    string         `json:"txId"`
	Code    ValidationCode `json:"code"`
	Message string         `json:"message,omitempty"`
}

// BlockHeader identifies a block's position and hash-chain linkage.
type BlockHeader struct {
	Number       uint64 `json:"number"`
	PreviousHash string `json:"previousHash"`
	DataHash     string `json:"dataHash"`
}

// BlockMetadata carries ordering and (post-commit) validation information.
// The orderer signs {timestamp, ordererId} plus the header/transactions;
// ValidationInfo is filled in afterwards by the committer, see
// CanonicalSignedMetadata for the exact signed subset.
type BlockMetadata struct {
	Timestamp        string             `json:"timestamp"`
	OrdererID        string             `json:"ordererId"`
	OrdererSignature icrypto.Signature  `json:"ordererSignature"`
	ValidationInfo   []ValidationRecord `json:"validationInfo,omitempty"`
}

// Block is an immutable (post-signing) unit of the ledger. The committer
// mutates only Metadata.ValidationInfo before persisting — see
// CanonicalSignedMetadata, which leaves that field out of the signed bytes.
type Block struct {
	Header       BlockHeader            `json:"header"`
	Transactions []TransactionEnvelope `json:"transactions"`
	Metadata     BlockMetadata          `json:"metadata"`
}

// NowISO8601 is the single place blocks stamp their metadata timestamp.
func NowISO8601(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
