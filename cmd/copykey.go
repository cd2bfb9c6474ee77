package cmd

import "github.com/spf13/cobra"

// copyKeyCmd copies the public SSH key to the clipboard.
var copyKeyCmd = &cobra.Command{
	Use:   "copy-ssh-key",
	Short: "Copy your public SSH key to the clipboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.workflow.CopyKey(cmd.Context())
	},
}
