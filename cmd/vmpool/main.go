// Package main is the entry point for the vmpool CLI.
//
// vmpool declaratively manages oVirt VM pools: it creates a pool when it is
// missing, updates it when a declared field diverges, removes it on request
// and attaches declared NICs to the VMs spawned for a new pool.
//
// Commands: apply, version.
//
// For detailed usage information, run:
//
//	vmpool --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/vmpool/cmd/vmpool/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
