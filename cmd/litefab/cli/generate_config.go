// Copyright 2025 Certen Protocol

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/certen/independant-validator/internal/config"
	icrypto "github.com/certen/independant-validator/internal/crypto"
)

var (
	generateConfigOutDir string
	generateConfigOrgs   []string
)

var generateConfigCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Generate a network.yaml MSP directory and peer, orderer, and client keypairs per org",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(generateConfigOrgs) == 0 {
			return fmt.Errorf("at least one --org is required")
		}

		keysDir := filepath.Join(generateConfigOutDir, "keys")
		if err := os.MkdirAll(keysDir, 0o755); err != nil {
			return fmt.Errorf("create keys directory: %w", err)
		}

		net := config.NetworkConfig{ChannelID: "mainchannel"}
		for _, org := range generateConfigOrgs {
			net.Organizations = append(net.Organizations, config.OrganizationConfig{OrgID: org})

			for _, role := range []string{"peer", "orderer", "client"} {
				identityID := fmt.Sprintf("%s-%s", org, role)
				sk, err := icrypto.GenerateKey()
				if err != nil {
					return fmt.Errorf("generate key for %q: %w", identityID, err)
				}

				privPath := filepath.Join(keysDir, identityID+".key.pem")
				if err := os.WriteFile(privPath, sk.PrivateKeyPEM(), 0o600); err != nil {
					return fmt.Errorf("write private key for %q: %w", identityID, err)
				}

				pubBytes, err := sk.PublicKey().PublicKeyPEM()
				if err != nil {
					return fmt.Errorf("encode public key for %q: %w", identityID, err)
				}
				pubPath := filepath.Join(keysDir, identityID+".pub.pem")
				if err := os.WriteFile(pubPath, pubBytes, 0o644); err != nil {
					return fmt.Errorf("write public key for %q: %w", identityID, err)
				}

				roleUpper := map[string]string{"peer": "PEER", "orderer": "ORDERER", "client": "CLIENT"}[role]

				net.Identities = append(net.Identities, config.IdentityConfig{
					ID:            identityID,
					OrgID:         org,
					Role:          roleUpper,
					PublicKeyPath: pubPath,
				})

				fmt.Printf("✅ generated identity %s (role=%s) at %s\n", identityID, roleUpper, privPath)
			}
		}

		networkPath := filepath.Join(generateConfigOutDir, "network.yaml")
		if err := net.Save(networkPath); err != nil {
			return fmt.Errorf("save network config: %w", err)
		}
		fmt.Printf("📋 wrote network config to %s\n", networkPath)
		return nil
	},
}

// RegisterGenerateConfig adds the generate-config command to root.
func RegisterGenerateConfig(root *cobra.Command) {
	generateConfigCmd.Flags().StringVar(&generateConfigOutDir, "out", "./config", "output directory for network.yaml and generated keys")
	generateConfigCmd.Flags().StringSliceVar(&generateConfigOrgs, "org", nil, "organization id to provision identities for (repeatable)")
	root.AddCommand(generateConfigCmd)
}
