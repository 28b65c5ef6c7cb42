// Copyright 2025 Certen Protocol
//
// Client commands: build and sign a proposal, collect endorsements from
// one or more peers, assemble and sign the envelope, and submit it.

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	icrypto "github.com/certen/independant-validator/internal/crypto"
	"github.com/certen/independant-validator/internal/endorser"
	"github.com/certen/independant-validator/internal/ledger"
)

var (
	clientIdentityID string
	clientOrgID      string
	clientKeyPath    string
	clientPubKeyPath string
	clientPeers      []string
	clientPolicy     string
	clientChaincode  string
	clientFunction   string
	clientArgs       []string
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Build, endorse, and submit transactions as a client identity",
}

var clientDeployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a chaincode with an endorsement policy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := parsePolicy(clientPolicy)
		if err != nil {
			return err
		}
		if policy == nil {
			return fmt.Errorf("--policy is required for deploy")
		}
		payload := ledger.TxPayload{
			Type:              ledger.TxDeploy,
			ChaincodeID:       clientChaincode,
			Args:              clientArgs,
			EndorsementPolicy: policy,
		}
		return runTransaction(payload)
	},
}

var clientInvokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Invoke a deployed chaincode's function",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if clientFunction == "" {
			return fmt.Errorf("--function is required for invoke")
		}
		payload := ledger.TxPayload{
			Type:         ledger.TxInvoke,
			ChaincodeID:  clientChaincode,
			FunctionName: clientFunction,
			Args:         clientArgs,
		}
		return runTransaction(payload)
	},
}

var clientQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a world-state key from a peer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(clientPeers) == 0 {
			return fmt.Errorf("at least one --peer is required")
		}
		key := ""
		if len(clientArgs) > 0 {
			key = clientArgs[0]
		}
		resp, err := http.Get(fmt.Sprintf("%s/query?key=%s", clientPeers[0], key))
		if err != nil {
			return fmt.Errorf("query peer: %w", err)
		}
		defer resp.Body.Close()
		var out map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		b, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(b))
		return nil
	},
}

// runTransaction builds a proposal from payload, endorses it against
// every configured peer, assembles and signs the envelope, and submits it
// to the first peer.
func runTransaction(payload ledger.TxPayload) error {
	if len(clientPeers) == 0 {
		return fmt.Errorf("at least one --peer is required")
	}

	keyBytes, err := os.ReadFile(clientKeyPath)
	if err != nil {
		return fmt.Errorf("read client private key: %w", err)
	}
	clientKey, err := icrypto.PrivateKeyFromPEM(keyBytes)
	if err != nil {
		return fmt.Errorf("parse client private key: %w", err)
	}
	pubBytes, err := os.ReadFile(clientPubKeyPath)
	if err != nil {
		return fmt.Errorf("read client public key: %w", err)
	}

	txID := uuid.NewString()
	proposalDigest, err := ledger.CanonicalProposal(txID, clientIdentityID, clientOrgID, string(pubBytes), payload)
	if err != nil {
		return fmt.Errorf("canonicalize proposal: %w", err)
	}
	sig, err := clientKey.Sign(proposalDigest)
	if err != nil {
		return fmt.Errorf("sign proposal: %w", err)
	}

	proposal := endorser.Proposal{
		TxID:          txID,
		CreatorID:     clientIdentityID,
		CreatorOrgID:  clientOrgID,
		CreatorPubKey: string(pubBytes),
		Payload:       payload,
		Signature:     sig,
	}

	var responses []*endorser.ProposalResponse
	for _, peer := range clientPeers {
		resp, err := postProposal(peer, proposal)
		if err != nil {
			return fmt.Errorf("endorse at %s: %w", peer, err)
		}
		responses = append(responses, resp)
	}

	env := ledger.TransactionEnvelope{
		TxID:          txID,
		CreatorID:     clientIdentityID,
		CreatorOrgID:  clientOrgID,
		CreatorPubKey: string(pubBytes),
		Payload:       payload,
		RWSet:         responses[0].RWSet,
		Result:        responses[0].Result,
	}
	for _, resp := range responses {
		env.Endorsements = append(env.Endorsements, resp.Endorsement)
	}

	envDigest, err := ledger.CanonicalEnvelope(env)
	if err != nil {
		return fmt.Errorf("canonicalize envelope: %w", err)
	}
	env.ClientSignature, err = clientKey.Sign(envDigest)
	if err != nil {
		return fmt.Errorf("sign envelope: %w", err)
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpClient.Post(clientPeers[0]+"/submit", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("submit envelope: %w", err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	fmt.Printf("✅ submitted tx %s: %v\n", txID, out)
	return nil
}

func postProposal(peerAddr string, proposal endorser.Proposal) (*endorser.ProposalResponse, error) {
	body, err := json.Marshal(proposal)
	if err != nil {
		return nil, fmt.Errorf("marshal proposal: %w", err)
	}
	httpClient := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpClient.Post(peerAddr+"/proposal", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var apiErr map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("peer rejected proposal with status %d: %v", resp.StatusCode, apiErr)
	}
	var out endorser.ProposalResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode proposal response: %w", err)
	}
	return &out, nil
}

// RegisterClient adds the client command group to root.
func RegisterClient(root *cobra.Command) {
	clientCmd.PersistentFlags().StringVar(&clientIdentityID, "identity", "", "client identity id")
	clientCmd.PersistentFlags().StringVar(&clientOrgID, "org", "", "client organization id")
	clientCmd.PersistentFlags().StringVar(&clientKeyPath, "key", "", "path to client private key PEM")
	clientCmd.PersistentFlags().StringVar(&clientPubKeyPath, "pubkey", "", "path to client public key PEM")
	clientCmd.PersistentFlags().StringSliceVar(&clientPeers, "peer", nil, "peer base URL to endorse/query/submit against (repeatable)")
	clientCmd.PersistentFlags().StringVar(&clientChaincode, "chaincode", "", "chaincode id")
	clientCmd.PersistentFlags().StringVar(&clientFunction, "function", "", "function name (invoke only)")
	clientCmd.PersistentFlags().StringSliceVar(&clientArgs, "arg", nil, "function argument (repeatable); query uses the first as the key")
	clientDeployCmd.Flags().StringVar(&clientPolicy, "policy", "", "endorsement policy literal, e.g. ANY:Org1,Org2")

	clientCmd.AddCommand(clientDeployCmd, clientInvokeCmd, clientQueryCmd)
	root.AddCommand(clientCmd)
}
