// Copyright 2025 Certen Protocol
//
// NetworkConfig declares the MSP: every organization and identity in the
// network, plus each identity's public key. Loaded once at startup and
// never mutated (spec §4.8); a single file is shared by every node so all
// peers and orderers agree on the same identity directory.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	icrypto "github.com/certen/independant-validator/internal/crypto"
	"github.com/certen/independant-validator/internal/msp"
)

// IdentityConfig is one identity's YAML representation.
type IdentityConfig struct {
	ID            string `yaml:"id"`
	OrgID         string `yaml:"orgId"`
	Role          string `yaml:"role"`
	PublicKeyPath string `yaml:"publicKeyPath"`
}

// OrganizationConfig declares one organization by id; membership is
// implied by IdentityConfig.OrgID references, not listed here.
type OrganizationConfig struct {
	OrgID string `yaml:"orgId"`
}

// NetworkConfig is the on-disk MSP declaration.
type NetworkConfig struct {
	ChannelID     string               `yaml:"channelId"`
	Organizations []OrganizationConfig `yaml:"organizations"`
	Identities    []IdentityConfig     `yaml:"identities"`
}

// LoadNetworkConfig reads and parses a NetworkConfig from path.
func LoadNetworkConfig(path string) (*NetworkConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read network config %q: %w", path, err)
	}
	var nc NetworkConfig
	if err := yaml.Unmarshal(b, &nc); err != nil {
		return nil, fmt.Errorf("parse network config %q: %w", path, err)
	}
	return &nc, nil
}

// Save writes nc to path as YAML.
func (nc *NetworkConfig) Save(path string) error {
	b, err := yaml.Marshal(nc)
	if err != nil {
		return fmt.Errorf("marshal network config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write network config %q: %w", path, err)
	}
	return nil
}

// BuildMSP loads every identity's public key from disk and constructs an
// msp.MSP from this NetworkConfig.
func (nc *NetworkConfig) BuildMSP() (*msp.MSP, error) {
	orgIDs := make([]string, 0, len(nc.Organizations))
	for _, o := range nc.Organizations {
		orgIDs = append(orgIDs, o.OrgID)
	}

	identities := make([]*msp.Identity, 0, len(nc.Identities))
	for _, ic := range nc.Identities {
		pemBytes, err := os.ReadFile(ic.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read public key for identity %q: %w", ic.ID, err)
		}
		pub, err := icrypto.PublicKeyFromPEM(pemBytes)
		if err != nil {
			return nil, fmt.Errorf("parse public key for identity %q: %w", ic.ID, err)
		}
		identities = append(identities, &msp.Identity{
			ID:        ic.ID,
			OrgID:     ic.OrgID,
			Role:      msp.Role(ic.Role),
			PublicKey: pub,
		})
	}

	return msp.New(orgIDs, identities)
}
