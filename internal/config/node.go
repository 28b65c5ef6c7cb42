// Copyright 2025 Certen Protocol
//
// NodeConfig declares one node's identity and role-specific wiring: which
// identity it signs as, where its private key lives, which chaincodes it
// hosts (peer), or which peers to broadcast committed blocks to
// (orderer).

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NodeRole is the role a node process runs as.
type NodeRole string

const (
	NodeRolePeer    NodeRole = "PEER"
	NodeRoleOrderer NodeRole = "ORDERER"
)

// NodeConfig is the on-disk per-node declaration.
type NodeConfig struct {
	Role            NodeRole `yaml:"role"`
	IdentityID      string   `yaml:"identityId"`
	OrgID           string   `yaml:"orgId"`
	PrivateKeyPath  string   `yaml:"privateKeyPath"`
	Channel         string   `yaml:"channel"`

	// Peer-only.
	Chaincodes []string `yaml:"chaincodes,omitempty"`
	// OrdererAddresses is where a peer forwards client submissions
	// (spec §9: fixes the single-orderer-address hardcoding by allowing
	// a list, cycled round-robin by internal/server).
	OrdererAddresses []string `yaml:"ordererAddresses,omitempty"`

	// Orderer-only.
	PeerAddresses []string `yaml:"peerAddresses,omitempty"`
}

// LoadNodeConfig reads and parses a NodeConfig from path.
func LoadNodeConfig(path string) (*NodeConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read node config %q: %w", path, err)
	}
	var nc NodeConfig
	if err := yaml.Unmarshal(b, &nc); err != nil {
		return nil, fmt.Errorf("parse node config %q: %w", path, err)
	}
	return &nc, nil
}

// Save writes nc to path as YAML.
func (nc *NodeConfig) Save(path string) error {
	b, err := yaml.Marshal(nc)
	if err != nil {
		return fmt.Errorf("marshal node config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write node config %q: %w", path, err)
	}
	return nil
}
