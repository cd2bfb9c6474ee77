package cmd

import "github.com/spf13/cobra"

// configureCmd asks for name and email again, even when already set.
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure git name, email and editor and create SSH keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.workflow.Configure(cmd.Context())
	},
}
