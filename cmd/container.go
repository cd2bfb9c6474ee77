package cmd

import (
	"net/http"
	"os"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/dig"

	"git-setup/internal/clipboard"
	"git-setup/internal/clock"
	"git-setup/internal/config"
	"git-setup/internal/gitconfig"
	"git-setup/internal/identity"
	"git-setup/internal/installer"
	"git-setup/internal/notify"
	"git-setup/internal/pkgmgr"
	"git-setup/internal/platform"
	"git-setup/internal/prompt"
	"git-setup/internal/shell"
	"git-setup/internal/sshkey"
	"git-setup/internal/workflow"
)

// downloadTimeout bounds bootstrap script and release asset downloads.
const downloadTimeout = 10 * time.Minute

// registerProviders wires every component of the tool for cfg.
func registerProviders(container *dig.Container, cfg config.Config) error {
	providers := []any{
		func() config.Config { return cfg },
		func() platform.Capability { return platform.For(platform.Detect()) },
		func(c platform.Capability) shell.Runner { return shell.NewExecRunner(c) },
		func() afero.Fs { return afero.NewOsFs() },
		func() clock.Clock { return clock.RealClock{} },
		func() *http.Client { return &http.Client{Timeout: downloadTimeout} },
		func(client *http.Client, fs afero.Fs) pkgmgr.Downloader {
			return &pkgmgr.HTTPDownloader{Client: client, Fs: fs}
		},
		newPackageManager,
		newReleaseInstaller,
		installer.NewGitInstaller,
		gitconfig.NewStore,
		newKeyManager,
		prompt.New,
		func() notify.Notifier { return notify.Console{} },
		newConfigurator,
		newWorkflow,
	}
	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return err
		}
	}
	return nil
}

func newPackageManager(
	c platform.Capability,
	runner shell.Runner,
	fs afero.Fs,
	download pkgmgr.Downloader,
	cfg config.Config,
) pkgmgr.Installer {
	script := cfg.PackageManager.HomebrewScript
	if c.Platform() == platform.Windows {
		script = cfg.PackageManager.ChocolateyScript
	}
	return pkgmgr.NewManager(c, runner, fs, download, script, os.TempDir())
}

func newReleaseInstaller(
	c platform.Capability,
	runner shell.Runner,
	client *http.Client,
	download pkgmgr.Downloader,
	fs afero.Fs,
	cfg config.Config,
) *installer.ReleaseInstaller {
	tempDir := c.Join(os.TempDir(), "git-setup")
	return installer.NewReleaseInstaller(c, runner, client, download, fs, installer.GitHubAPI, cfg.Git.Release, tempDir)
}

func newKeyManager(c platform.Capability, runner shell.Runner, fs afero.Fs, cfg config.Config) *sshkey.Manager {
	return sshkey.NewManager(c, runner, fs, os.Getenv, sshkey.Options{
		KeyName: cfg.SSH.KeyName,
		KeyType: cfg.SSH.KeyType,
	})
}

func newConfigurator(
	git *installer.GitInstaller,
	store *gitconfig.Store,
	prompter *prompt.Prompter,
	keys *sshkey.Manager,
	notifier notify.Notifier,
	cfg config.Config,
) *identity.Configurator {
	return identity.NewConfigurator(git, store, prompter, keys, notifier, cfg.Git.Editor)
}

func newWorkflow(
	git *installer.GitInstaller,
	configurator *identity.Configurator,
	keys *sshkey.Manager,
	notifier notify.Notifier,
) *workflow.Workflow {
	return workflow.New(git, configurator, keys, clipboard.System{}, notifier)
}

// app is what the commands need from the container.
type app struct {
	cfg      config.Config
	workflow *workflow.Workflow
	prompter *prompt.Prompter
}

// injectApp builds the container for cfg and resolves the app.
func injectApp(cfg config.Config) (*app, error) {
	container := dig.New()
	if err := registerProviders(container, cfg); err != nil {
		return nil, err
	}

	var a *app
	err := container.Invoke(func(w *workflow.Workflow, p *prompt.Prompter) {
		a = &app{cfg: cfg, workflow: w, prompter: p}
	})
	return a, err
}
