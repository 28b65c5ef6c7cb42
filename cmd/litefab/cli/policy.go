// Copyright 2025 Certen Protocol
//
// Endorsement policy literal grammar: "(ANY|ALL|MAJORITY):Org1,Org2,...".

package cli

import (
	"fmt"
	"strings"

	"github.com/certen/independant-validator/internal/ledger"
)

// parsePolicy parses a policy literal like "ANY:Org1,Org2" into an
// ledger.EndorsementPolicy.
func parsePolicy(literal string) (*ledger.EndorsementPolicy, error) {
	if literal == "" {
		return nil, nil
	}
	parts := strings.SplitN(literal, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid policy literal %q: expected TYPE:Org1,Org2,...", literal)
	}

	policyType := ledger.EndorsementPolicyType(strings.ToUpper(strings.TrimSpace(parts[0])))
	switch policyType {
	case ledger.PolicyAny, ledger.PolicyAll, ledger.PolicyMajority:
	default:
		return nil, fmt.Errorf("invalid policy type %q: must be ANY, ALL, or MAJORITY", parts[0])
	}

	var orgs []string
	for _, org := range strings.Split(parts[1], ",") {
		org = strings.TrimSpace(org)
		if org != "" {
			orgs = append(orgs, org)
		}
	}
	if len(orgs) == 0 {
		return nil, fmt.Errorf("invalid policy literal %q: no orgs listed", literal)
	}

	return &ledger.EndorsementPolicy{Type: policyType, Orgs: orgs}, nil
}
