package cmd

import "github.com/spf13/cobra"

// checkCmd reports whether git is installed and offers to install it.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether git is installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := current.workflow.Check(cmd.Context())
		if err != nil || report.Installed {
			return err
		}
		if current.prompter.Confirm(cmd.Context(), "Install now?") {
			return runInstall(cmd)
		}
		return nil
	},
}
