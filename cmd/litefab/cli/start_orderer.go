// Copyright 2025 Certen Protocol

package cli

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/certen/independant-validator/internal/config"
	icrypto "github.com/certen/independant-validator/internal/crypto"
	"github.com/certen/independant-validator/internal/kvstore"
	"github.com/certen/independant-validator/internal/ledger"
	"github.com/certen/independant-validator/internal/orderer"
	"github.com/certen/independant-validator/internal/server"
)

var startOrdererCmd = &cobra.Command{
	Use:   "start-orderer <node-config.yaml>",
	Short: "Start an orderer: Solo block cutter, broadcaster, and HTTP API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.LoadSettings()

		nodeCfg, err := config.LoadNodeConfig(args[0])
		if err != nil {
			return err
		}
		if nodeCfg.Role != config.NodeRoleOrderer {
			return fmt.Errorf("node config role is %q, expected ORDERER", nodeCfg.Role)
		}

		privBytes, err := os.ReadFile(nodeCfg.PrivateKeyPath)
		if err != nil {
			return fmt.Errorf("read private key: %w", err)
		}
		signingKey, err := icrypto.PrivateKeyFromPEM(privBytes)
		if err != nil {
			return fmt.Errorf("parse private key: %w", err)
		}

		ledgerEngine, err := kvstore.OpenGoLevelDB("ledger", settings.DataDir)
		if err != nil {
			return fmt.Errorf("open ledger engine: %w", err)
		}
		ledgerStore := ledger.New(ledgerEngine)

		broadcaster := orderer.NewBroadcaster(nodeCfg.PeerAddresses)
		soloCfg := orderer.Config{MaxBatchSize: settings.SoloMaxBatchSize, BatchTimeout: settings.SoloBatchTimeout}
		solo := orderer.New(soloCfg, ledgerStore, signingKey, nodeCfg.IdentityID, broadcaster.Broadcast)

		ordererHandlers := server.NewOrdererHandlers(solo)
		mux := server.NewOrdererMux(ordererHandlers)

		log.Printf("🚀 litefab orderer %s listening on %s (batch size=%d, timeout=%s)",
			nodeCfg.IdentityID, settings.ListenAddr, soloCfg.MaxBatchSize, soloCfg.BatchTimeout)
		log.Printf("📋 broadcasting to peers: %v", nodeCfg.PeerAddresses)

		httpServer := &http.Server{Addr: settings.ListenAddr, Handler: mux}
		return runWithGracefulShutdown(httpServer)
	},
}

// RegisterStartOrderer adds the start-orderer command to root.
func RegisterStartOrderer(root *cobra.Command) {
	root.AddCommand(startOrdererCmd)
}
