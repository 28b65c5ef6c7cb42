// Copyright 2025 Certen Protocol

package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/certen/independant-validator/internal/chaincode"
	"github.com/certen/independant-validator/internal/chaincode/basic"
	"github.com/certen/independant-validator/internal/committer"
	"github.com/certen/independant-validator/internal/config"
	icrypto "github.com/certen/independant-validator/internal/crypto"
	"github.com/certen/independant-validator/internal/endorser"
	"github.com/certen/independant-validator/internal/kvstore"
	"github.com/certen/independant-validator/internal/ledger"
	"github.com/certen/independant-validator/internal/server"
	"github.com/certen/independant-validator/internal/worldstate"
)

var startPeerCmd = &cobra.Command{
	Use:   "start-peer <node-config.yaml>",
	Short: "Start a peer: endorser, world state, ledger, and HTTP API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.LoadSettings()

		nodeCfg, err := config.LoadNodeConfig(args[0])
		if err != nil {
			return err
		}
		if nodeCfg.Role != config.NodeRolePeer {
			return fmt.Errorf("node config role is %q, expected PEER", nodeCfg.Role)
		}

		net, err := config.LoadNetworkConfig(settings.NetworkConfigPath)
		if err != nil {
			return err
		}
		mspDir, err := net.BuildMSP()
		if err != nil {
			return fmt.Errorf("build MSP: %w", err)
		}

		privBytes, err := os.ReadFile(nodeCfg.PrivateKeyPath)
		if err != nil {
			return fmt.Errorf("read private key: %w", err)
		}
		signingKey, err := icrypto.PrivateKeyFromPEM(privBytes)
		if err != nil {
			return fmt.Errorf("parse private key: %w", err)
		}

		engine, err := kvstore.OpenGoLevelDB("worldstate", settings.DataDir)
		if err != nil {
			return fmt.Errorf("open world state engine: %w", err)
		}
		ledgerEngine, err := kvstore.OpenGoLevelDB("ledger", settings.DataDir)
		if err != nil {
			return fmt.Errorf("open ledger engine: %w", err)
		}

		store := worldstate.New(engine, nodeCfg.Channel)
		ledgerStore := ledger.New(ledgerEngine)

		host := chaincode.NewHost()
		for _, ccID := range nodeCfg.Chaincodes {
			switch ccID {
			case basic.ChaincodeID:
				host.Register(basic.ChaincodeID, basic.New())
			default:
				log.Printf("⚠️ unknown chaincode id %q in node config, skipping", ccID)
			}
		}

		e := endorser.New(mspDir, host, store, signingKey, nodeCfg.IdentityID, nodeCfg.OrgID)
		c := committer.New(mspDir, store, ledgerStore)

		peerHandlers := server.NewPeerHandlers(e, store, nodeCfg.OrdererAddresses)
		broadcastHandlers := server.NewPeerBroadcastHandlers(c)
		mux := server.NewPeerMux(peerHandlers, broadcastHandlers, ledgerStore)

		log.Printf("🚀 litefab peer %s (org=%s) listening on %s", nodeCfg.IdentityID, nodeCfg.OrgID, settings.ListenAddr)
		log.Printf("📋 chaincodes hosted: %v", nodeCfg.Chaincodes)

		httpServer := &http.Server{Addr: settings.ListenAddr, Handler: mux}
		return runWithGracefulShutdown(httpServer)
	},
}

// runWithGracefulShutdown runs srv until SIGINT/SIGTERM, then drains
// in-flight requests before returning.
func runWithGracefulShutdown(srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("⚠️ shutdown signal received, draining connections")
		ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		log.Println("✅ shutdown complete")
		return nil
	}
}

// RegisterStartPeer adds the start-peer command to root.
func RegisterStartPeer(root *cobra.Command) {
	root.AddCommand(startPeerCmd)
}
