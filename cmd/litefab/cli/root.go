// Copyright 2025 Certen Protocol
//
// Command tree root, grounded on the orbas1-Synnergy cmd/cli package's
// pattern of one file per command group, each exposing a Register
// function the root wires up in init.

package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "litefab",
	Short: "Litefab permissioned-ledger node and client",
}

func init() {
	RegisterGenerateConfig(rootCmd)
	RegisterStartPeer(rootCmd)
	RegisterStartOrderer(rootCmd)
	RegisterClient(rootCmd)
}

// Execute runs the root command against os.Args.
func Execute() error {
	return rootCmd.Execute()
}
