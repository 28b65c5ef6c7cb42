// Copyright 2025 Certen Protocol
//
// MSP (Membership Service Provider) — read-only identity directory loaded
// once at startup from a NetworkConfig and never mutated at runtime.

package msp

import (
	"fmt"

	"github.com/certen/independant-validator/internal/canonical"
	icrypto "github.com/certen/independant-validator/internal/crypto"
)

// Role is the network role an identity holds.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleClient  Role = "CLIENT"
	RolePeer    Role = "PEER"
	RoleOrderer Role = "ORDERER"
)

// Identity is an immutable network participant.
type Identity struct {
	ID        string
	OrgID     string
	Role      Role
	PublicKey *icrypto.PublicKey
}

// Organization groups identities under a shared orgId.
type Organization struct {
	OrgID      string
	Identities map[string]*Identity
}

// VerifyResult is the outcome of a signature verification.
type VerifyResult struct {
	Valid    bool
	Identity *Identity
	Error    error
}

// MSP is the read-only identity directory. Construct with New and never
// mutate after load; concurrent readers are always safe.
type MSP struct {
	orgs       map[string]*Organization
	identities map[string]*Identity
}

// New builds an MSP directory from a flat identity list, validating that
// every identity's orgId matches a declared organization.
func New(orgIDs []string, identities []*Identity) (*MSP, error) {
	orgs := make(map[string]*Organization, len(orgIDs))
	for _, o := range orgIDs {
		orgs[o] = &Organization{OrgID: o, Identities: map[string]*Identity{}}
	}
	idx := make(map[string]*Identity, len(identities))
	for _, id := range identities {
		org, ok := orgs[id.OrgID]
		if !ok {
			return nil, fmt.Errorf("identity %q references unknown org %q", id.ID, id.OrgID)
		}
		if _, dup := idx[id.ID]; dup {
			return nil, fmt.Errorf("duplicate identity id %q", id.ID)
		}
		org.Identities[id.ID] = id
		idx[id.ID] = id
	}
	return &MSP{orgs: orgs, identities: idx}, nil
}

// GetIdentity looks up an identity by id.
func (m *MSP) GetIdentity(id string) (*Identity, bool) {
	ident, ok := m.identities[id]
	return ident, ok
}

// GetOrganization looks up an organization by orgId.
func (m *MSP) GetOrganization(orgID string) (*Organization, bool) {
	org, ok := m.orgs[orgID]
	return org, ok
}

// HasRole reports whether id is known and holds role.
func (m *MSP) HasRole(id string, role Role) bool {
	ident, ok := m.identities[id]
	return ok && ident.Role == role
}

// VerifySignature verifies data's signature against signerId's public key,
// optionally enforcing a role. All failures are reported as
// VerifyResult{Valid:false, Error:...} rather than thrown, per spec §4.8.
func (m *MSP) VerifySignature(data []byte, sig icrypto.Signature, signerID string, expectedRole Role) VerifyResult {
	ident, ok := m.identities[signerID]
	if !ok {
		return VerifyResult{Error: fmt.Errorf("unknown identity %q", signerID)}
	}
	if expectedRole != "" && ident.Role != expectedRole {
		return VerifyResult{Error: fmt.Errorf("identity %q has role %s, expected %s", signerID, ident.Role, expectedRole)}
	}
	if !ident.PublicKey.Verify(data, sig) {
		return VerifyResult{Valid: false, Identity: ident, Error: fmt.Errorf("signature verification failed for %q", signerID)}
	}
	return VerifyResult{Valid: true, Identity: ident}
}

// CanonicalDigest is a convenience wrapper used by callers that build the
// canonical payload from an ordered set of fields before verifying.
func CanonicalDigest(pairs ...canonical.KV) ([]byte, error) {
	return canonical.Marshal(canonical.Map(pairs...))
}
