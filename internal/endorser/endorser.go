// Copyright 2025 Certen Protocol
//
// Endorser: simulates a proposed transaction against the peer's local
// world state and returns a signed endorsement plus the read-write set
// (spec §4.4). Grounded on pkg/consensus/abci_validator.go's
// verify-then-execute-then-respond shape, and on the role/signature-check
// flow of the Hyperledger Fabric core/endorser/endorser.go reference
// (style only — not a dependency).

package endorser

import (
	"fmt"

	"github.com/certen/independant-validator/internal/apierror"
	"github.com/certen/independant-validator/internal/ccmeta"
	"github.com/certen/independant-validator/internal/chaincode"
	icrypto "github.com/certen/independant-validator/internal/crypto"
	"github.com/certen/independant-validator/internal/ledger"
	"github.com/certen/independant-validator/internal/metrics"
	"github.com/certen/independant-validator/internal/msp"
	"github.com/certen/independant-validator/internal/worldstate"
)

// Proposal is a client's request to simulate a transaction.
type Proposal struct {
	TxID          string           `json:"txId"`
	CreatorID     string           `json:"creatorId"`
	CreatorOrgID  string           `json:"creatorOrgId"`
	CreatorPubKey string           `json:"creatorPubKey"`
	Payload       ledger.TxPayload `json:"payload"`
	Signature     icrypto.Signature `json:"signature"`
}

// ProposalResponse is the endorser's reply.
type ProposalResponse struct {
	Proposal    Proposal           `json:"proposal"`
	RWSet       worldstate.RWSet   `json:"rwSet"`
	Result      string             `json:"result"`
	Endorsement ledger.Endorsement `json:"endorsement"`
}

// Endorser simulates proposals for one peer identity.
type Endorser struct {
	mspDir     *msp.MSP
	host       *chaincode.Host
	store      *worldstate.Store
	signingKey *icrypto.PrivateKey
	peerID     string
	peerOrgID  string
}

// New returns an Endorser signing endorsements as peerID/peerOrgID.
func New(mspDir *msp.MSP, host *chaincode.Host, store *worldstate.Store, signingKey *icrypto.PrivateKey, peerID, peerOrgID string) *Endorser {
	return &Endorser{
		mspDir:     mspDir,
		host:       host,
		store:      store,
		signingKey: signingKey,
		peerID:     peerID,
		peerOrgID:  peerOrgID,
	}
}

// Endorse processes a proposal per spec §4.4 steps 1-5.
func (e *Endorser) Endorse(p Proposal) (resp *ProposalResponse, apiErr *apierror.Error) {
	defer func() {
		if apiErr != nil {
			metrics.ProposalsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.ProposalsTotal.WithLabelValues("endorsed").Inc()
		}
	}()

	digest, err := ledger.CanonicalProposal(p.TxID, p.CreatorID, p.CreatorOrgID, p.CreatorPubKey, p.Payload)
	if err != nil {
		return nil, apierror.BadRequest(fmt.Sprintf("canonicalize proposal: %v", err))
	}
	result := e.mspDir.VerifySignature(digest, p.Signature, p.CreatorID, msp.RoleClient)
	if !result.Valid {
		cause := "signature verification failed"
		if result.Error != nil {
			cause = result.Error.Error()
		}
		return nil, apierror.SignatureInvalid(cause)
	}

	if p.Payload.Type == ledger.TxInvoke {
		exists, ccErr := ccmeta.Exists(e.store, p.Payload.ChaincodeID)
		if ccErr != nil {
			return nil, apierror.StorageError(ccErr.Error())
		}
		if !exists {
			return nil, apierror.NotFound(fmt.Sprintf("chaincode %q not deployed", p.Payload.ChaincodeID))
		}
	} else if !e.host.Has(p.Payload.ChaincodeID) {
		return nil, apierror.NotFound(fmt.Sprintf("chaincode %q not registered on this peer", p.Payload.ChaincodeID))
	}

	exec, execErr := e.host.ExecuteTransaction(e.store, p.Payload, p.CreatorID, p.CreatorOrgID)
	if execErr != nil {
		return nil, apierror.ChaincodeExecution(execErr.Error())
	}

	endorsementDigest, err := ledger.CanonicalEndorsementPayload(p.TxID, p.Payload, exec.RWSet, exec.Result)
	if err != nil {
		return nil, apierror.BadRequest(fmt.Sprintf("canonicalize endorsement payload: %v", err))
	}
	sig, err := e.signingKey.Sign(endorsementDigest)
	if err != nil {
		return nil, apierror.StorageError(fmt.Sprintf("sign endorsement: %v", err))
	}

	return &ProposalResponse{
		Proposal: p,
		RWSet:    exec.RWSet,
		Result:   exec.Result,
		Endorsement: ledger.Endorsement{
			EndorserID:    e.peerID,
			EndorserOrgID: e.peerOrgID,
			Signature:     sig,
		},
	}, nil
}
