package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/vmprovision/cmd/vmprovision/handlers"
)

// Run returns the run command.
func Run() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Create the virtual machine, then delete its resource group",
		Long: `Run creates, in order:
  - Resource group
  - Virtual network with one subnet
  - Network interface on that subnet
  - Linux virtual machine with SSH key authentication

The resource group is deleted afterwards whether or not creation succeeded.
A YAML report of the run is written to stdout.

Configuration is read from VMPROVISION_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Run(cmd.Context())
		},
	}
}
