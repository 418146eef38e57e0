// Package commands defines the CLI command structure.
//
// Commands take no flags or arguments; configuration is read from the
// environment by the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the vmprovision CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "vmprovision",
		Short:        "Provision a virtual machine and tear it down again",
		SilenceUsage: true,
	}

	cmd.AddCommand(Run())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Version())

	return cmd
}
