// Copyright 2025 Certen Protocol
//
// litefab is the node and client CLI entrypoint, built the way
// cmd/bls-zk-setup delegates its whole run to a library RunXCLI function —
// generalized here into a cobra command tree since this CLI has several
// independent subcommands rather than one.

package main

import (
	"fmt"
	"os"

	"github.com/certen/independant-validator/cmd/litefab/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
