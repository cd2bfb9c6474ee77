package cmd

import (
	"github.com/spf13/cobra"

	"git-setup/internal/logger"
	"git-setup/internal/progress"
)

// noCopy skips copying the public key after the install.
var noCopy bool

// installCmd installs git when missing, then configures it.
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install git (if needed), configure your identity and SSH keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(cmd)
	},
}

func runInstall(cmd *cobra.Command) error {
	copyKey := current.cfg.CopyKey() && !noCopy
	run, err := current.workflow.Install(cmd.Context(), progress.NewConsole("Installing Git"), copyKey)
	logger.Debug("[DEBUG] %s\n", run)
	return err
}

func init() {
	installCmd.Flags().BoolVar(&noCopy, "no-copy", false, "Do not copy the public key to the clipboard")
}
