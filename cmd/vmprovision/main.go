// Package main is the entry point for the vmprovision CLI.
//
// vmprovision creates a Linux virtual machine with its resource group,
// virtual network, subnet and network interface, then deletes the resource
// group again. All settings come from VMPROVISION_* environment variables.
//
// Commands: run, destroy, version.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/vmprovision/cmd/vmprovision/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
