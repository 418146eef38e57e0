package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/vmprovision/cmd/vmprovision/handlers"
)

// Destroy returns the destroy command.
func Destroy() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy",
		Short: "Delete the configured resource group and everything in it",
		Long: `Destroy deletes the resource group named by VMPROVISION_RESOURCE_GROUP.
Nothing is deleted when the group does not exist.

WARNING: This operation is irreversible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context())
		},
	}
}
