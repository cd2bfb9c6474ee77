package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"git-setup/internal/config"
	"git-setup/internal/logger"
)

// debug flag indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// configPath holds the path to the YAML configuration file.
// It's passed via the `--config` or `-c` flag.
var configPath string

// current is the application resolved for the running command.
var current *app

// rootCmd is the base command for the CLI tool `git-setup`.
var rootCmd = &cobra.Command{
	Use:           "git-setup",
	Short:         "Install git, configure your identity and set up SSH keys",
	SilenceUsage:  true,
	SilenceErrors: true,

	// PersistentPreRunE runs before any subcommand: it sets up logging,
	// loads the configuration and wires the application.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init(debug)

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := logger.InitFile(logger.FileOptions{
			Dir:        cfg.Logging.Dir,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		}); err != nil {
			logger.Warn("[WARN] File logging disabled: %v\n", err)
		}

		current, err = injectApp(cfg)
		return err
	},
}

// closeLog flushes the log file once the command is done.
var closeLog = logger.Close

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Path to configuration file")

	rootCmd.AddCommand(installCmd, configureCmd, copyKeyCmd, checkCmd)
}

// Execute runs the command line. Ctrl-C cancels the running shell command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return execute(ctx, nil)
}

// execute runs rootCmd with args, or os.Args when args is nil. The log file
// is closed on every path, including a failing RunE.
func execute(ctx context.Context, args []string) error {
	defer closeLog()

	if args != nil {
		rootCmd.SetArgs(args)
	}
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.Error("[ERROR] %v\n", err)
	}
	return err
}
