// Copyright 2025 Certen Protocol
//
// Committer: the validate half of execute-order-validate. Runs every
// committed block's transactions through signature, endorsement-policy,
// and MVCC checks in block order, applies the survivors to world state,
// and records a ValidationRecord per transaction without ever aborting
// the block commit itself (spec §4.7). Grounded stylistically on the
// Hyperledger Fabric vscc/escc policy-evaluation reference files in
// other_examples (style only — not a dependency).

package committer

import (
	"fmt"

	"github.com/certen/independant-validator/internal/ccmeta"
	"github.com/certen/independant-validator/internal/ledger"
	"github.com/certen/independant-validator/internal/metrics"
	"github.com/certen/independant-validator/internal/msp"
	"github.com/certen/independant-validator/internal/worldstate"
)

// Committer validates and applies blocks for one channel.
type Committer struct {
	mspDir      *msp.MSP
	store       *worldstate.Store
	ledgerStore *ledger.Store
}

// New returns a Committer validating against mspDir and applying to store.
func New(mspDir *msp.MSP, store *worldstate.Store, ledgerStore *ledger.Store) *Committer {
	return &Committer{mspDir: mspDir, store: store, ledgerStore: ledgerStore}
}

// CommitBlock validates every transaction in block in order, applies the
// VALID ones to world state, stamps block.Metadata.ValidationInfo, and
// persists the (now-annotated) block. It never returns early on a single
// transaction's failure: a BAD_PAYLOAD or MVCC_READ_CONFLICT transaction
// is recorded and skipped, and the block still commits (spec §4.7).
func (c *Committer) CommitBlock(block ledger.Block) error {
	records := make([]ledger.ValidationRecord, 0, len(block.Transactions))

	for txNum, env := range block.Transactions {
		code, msg := c.validate(env)
		if code == ledger.CodeValid {
			if err := c.apply(env, block.Header.Number, uint64(txNum)); err != nil {
				code = ledger.CodeBadPayload
				msg = fmt.Sprintf("apply failed: %v", err)
			}
		}
		records = append(records, ledger.ValidationRecord{TxID: env.TxID, Code: code, Message: msg})
		metrics.ValidationCodeTotal.WithLabelValues(string(code)).Inc()
		if err := c.ledgerStore.PutTxIndex(env.TxID, block.Header.Number, uint64(txNum)); err != nil {
			return fmt.Errorf("committer: index tx %q: %w", env.TxID, err)
		}
	}

	block.Metadata.ValidationInfo = records
	if err := c.ledgerStore.PutBlock(block); err != nil {
		return fmt.Errorf("committer: persist validated block %d: %w", block.Header.Number, err)
	}
	return nil
}

// validate runs the signature, endorsement-policy, and MVCC checks for one
// transaction, in that order, short-circuiting on the first failure.
func (c *Committer) validate(env ledger.TransactionEnvelope) (ledger.ValidationCode, string) {
	if code, msg := c.checkSignatures(env); code != ledger.CodeValid {
		return code, msg
	}
	if code, msg := c.checkEndorsementPolicy(env); code != ledger.CodeValid {
		return code, msg
	}
	if code, msg := c.checkMVCC(env); code != ledger.CodeValid {
		return code, msg
	}
	return ledger.CodeValid, ""
}

// checkSignatures verifies the client's signature over the envelope and
// every endorsement's signature over the (proposal, rwSet, result) it
// attests to.
func (c *Committer) checkSignatures(env ledger.TransactionEnvelope) (ledger.ValidationCode, string) {
	envDigest, err := ledger.CanonicalEnvelope(env)
	if err != nil {
		return ledger.CodeBadPayload, fmt.Sprintf("canonicalize envelope: %v", err)
	}
	result := c.mspDir.VerifySignature(envDigest, env.ClientSignature, env.CreatorID, msp.RoleClient)
	if !result.Valid {
		return ledger.CodeMSPValidationFailed, fmt.Sprintf("client signature: %v", result.Error)
	}

	endorsementDigest, err := ledger.CanonicalEndorsementPayload(env.TxID, env.Payload, env.RWSet, env.Result)
	if err != nil {
		return ledger.CodeBadPayload, fmt.Sprintf("canonicalize endorsement payload: %v", err)
	}
	for _, endorsement := range env.Endorsements {
		result := c.mspDir.VerifySignature(endorsementDigest, endorsement.Signature, endorsement.EndorserID, msp.RolePeer)
		if !result.Valid {
			return ledger.CodeMSPValidationFailed, fmt.Sprintf("endorsement from %q: %v", endorsement.EndorserID, result.Error)
		}
		if result.Identity.OrgID != endorsement.EndorserOrgID {
			return ledger.CodeMSPValidationFailed, fmt.Sprintf("endorser %q orgId mismatch: claimed %q, actual %q", endorsement.EndorserID, endorsement.EndorserOrgID, result.Identity.OrgID)
		}
	}
	return ledger.CodeValid, ""
}

// checkEndorsementPolicy resolves the endorsement policy for env's
// chaincode (from the DEPLOY payload itself, or from stored chaincode
// metadata for an INVOKE) and evaluates it against the distinct endorsing
// orgs present on env.
func (c *Committer) checkEndorsementPolicy(env ledger.TransactionEnvelope) (ledger.ValidationCode, string) {
	policy, err := c.resolvePolicy(env)
	if err != nil {
		return ledger.CodeBadPayload, err.Error()
	}
	if policy == nil {
		return ledger.CodeValid, ""
	}

	orgs := map[string]bool{}
	for _, e := range env.Endorsements {
		orgs[e.EndorserOrgID] = true
	}

	satisfied, err := evaluatePolicy(*policy, orgs)
	if err != nil {
		return ledger.CodeBadPayload, err.Error()
	}
	if !satisfied {
		return ledger.CodeEndorsementPolicyFailure, fmt.Sprintf("policy %s:%v not satisfied by orgs %v", policy.Type, policy.Orgs, orgsList(orgs))
	}
	return ledger.CodeValid, ""
}

func (c *Committer) resolvePolicy(env ledger.TransactionEnvelope) (*ledger.EndorsementPolicy, error) {
	if env.Payload.Type == ledger.TxDeploy {
		if env.Payload.EndorsementPolicy != nil {
			return env.Payload.EndorsementPolicy, nil
		}
		return &ledger.EndorsementPolicy{Type: ledger.PolicyAny, Orgs: []string{env.CreatorOrgID}}, nil
	}
	meta, err := ccmeta.Load(c.store, env.Payload.ChaincodeID)
	if err != nil {
		return nil, fmt.Errorf("load chaincode metadata %q: %w", env.Payload.ChaincodeID, err)
	}
	if meta == nil {
		return nil, fmt.Errorf("chaincode %q has no deployment metadata", env.Payload.ChaincodeID)
	}
	return meta.EndorsementPolicy, nil
}

// evaluatePolicy reports whether orgs (the distinct set of orgs that
// endorsed a transaction) satisfies policy.
func evaluatePolicy(policy ledger.EndorsementPolicy, orgs map[string]bool) (bool, error) {
	if len(policy.Orgs) == 0 {
		return false, fmt.Errorf("endorsement policy names no orgs")
	}
	matched := 0
	for _, org := range policy.Orgs {
		if orgs[org] {
			matched++
		}
	}
	switch policy.Type {
	case ledger.PolicyAny:
		return matched >= 1, nil
	case ledger.PolicyAll:
		return matched == len(policy.Orgs), nil
	case ledger.PolicyMajority:
		return matched*2 > len(policy.Orgs), nil
	default:
		return false, fmt.Errorf("unknown endorsement policy type %q", policy.Type)
	}
}

func orgsList(orgs map[string]bool) []string {
	out := make([]string, 0, len(orgs))
	for o := range orgs {
		out = append(out, o)
	}
	return out
}

// checkMVCC validates env's read set against the store's current
// versions. Reads are checked against the state as of the start of this
// transaction's validation, i.e. after every earlier transaction in the
// same block has already been applied (spec §4.1 sequential block-order
// validation).
func (c *Committer) checkMVCC(env ledger.TransactionEnvelope) (ledger.ValidationCode, string) {
	ok, err := c.store.ValidateReadSet(env.RWSet.Reads)
	if err != nil {
		return ledger.CodeBadPayload, fmt.Sprintf("validate read set: %v", err)
	}
	if !ok {
		return ledger.CodeMVCCReadConflict, "a read in this transaction's read set no longer matches the committed version"
	}
	return ledger.CodeValid, ""
}

// apply writes env's RWSet to world state at (blockNum, txNum), and on a
// successful DEPLOY additionally persists the chaincode's deployment
// metadata (spec §4.7 step 4).
func (c *Committer) apply(env ledger.TransactionEnvelope, blockNum, txNum uint64) error {
	if err := c.store.Apply(env.RWSet, blockNum, txNum); err != nil {
		return err
	}
	if env.Payload.Type == ledger.TxDeploy {
		policy, err := c.resolvePolicy(env)
		if err != nil {
			return err
		}
		meta := ccmeta.Metadata{
			ChaincodeID:       env.Payload.ChaincodeID,
			Version:           env.TxID,
			EndorsementPolicy: policy,
		}
		if err := ccmeta.Save(c.store, meta, blockNum, txNum); err != nil {
			return err
		}
	}
	return nil
}
