package cli

import (
	"testing"

	"github.com/certen/independant-validator/internal/ledger"
)

func TestParsePolicyEmptyLiteralIsNil(t *testing.T) {
	policy, err := parsePolicy("")
	if err != nil {
		t.Fatalf("parsePolicy(\"\"): %v", err)
	}
	if policy != nil {
		t.Errorf("expected nil policy for an empty literal, got %+v", policy)
	}
}

func TestParsePolicyValidLiterals(t *testing.T) {
	cases := []struct {
		literal  string
		wantType ledger.EndorsementPolicyType
		wantOrgs []string
	}{
		{"ANY:Org1", ledger.PolicyAny, []string{"Org1"}},
		{"ALL:Org1,Org2", ledger.PolicyAll, []string{"Org1", "Org2"}},
		{"MAJORITY:Org1, Org2, Org3", ledger.PolicyMajority, []string{"Org1", "Org2", "Org3"}},
		{"any:Org1", ledger.PolicyAny, []string{"Org1"}},
	}

	for _, c := range cases {
		policy, err := parsePolicy(c.literal)
		if err != nil {
			t.Fatalf("parsePolicy(%q): %v", c.literal, err)
		}
		if policy.Type != c.wantType {
			t.Errorf("parsePolicy(%q).Type = %q, want %q", c.literal, policy.Type, c.wantType)
		}
		if len(policy.Orgs) != len(c.wantOrgs) {
			t.Fatalf("parsePolicy(%q).Orgs = %v, want %v", c.literal, policy.Orgs, c.wantOrgs)
		}
		for i, org := range c.wantOrgs {
			if policy.Orgs[i] != org {
				t.Errorf("parsePolicy(%q).Orgs[%d] = %q, want %q", c.literal, i, policy.Orgs[i], org)
			}
		}
	}
}

func TestParsePolicyRejectsMissingColon(t *testing.T) {
	if _, err := parsePolicy("ANYOrg1"); err == nil {
		t.Fatal("expected an error for a literal with no TYPE:orgs separator")
	}
}

func TestParsePolicyRejectsUnknownType(t *testing.T) {
	if _, err := parsePolicy("SOME:Org1"); err == nil {
		t.Fatal("expected an error for an unknown policy type")
	}
}

func TestParsePolicyRejectsNoOrgs(t *testing.T) {
	if _, err := parsePolicy("ANY:"); err == nil {
		t.Fatal("expected an error for a literal with no orgs")
	}
	if _, err := parsePolicy("ANY: , ,"); err == nil {
		t.Fatal("expected an error for a literal with only blank orgs")
	}
}
