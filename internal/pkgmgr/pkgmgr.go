// Package pkgmgr makes sure the platform package manager (Homebrew or
// Chocolatey) is available, bootstrapping it from its official script.
package pkgmgr

import (
	"context"
	"path"

	"github.com/spf13/afero"

	"git-setup/internal/logger"
	"git-setup/internal/platform"
	"git-setup/internal/progress"
	"git-setup/internal/shell"
)

// Installer ensures a package manager is present.
type Installer interface {
	EnsureInstalled(ctx context.Context, sink progress.Sink, weight int) bool
}

// Manager bootstraps the package manager named by the platform capability.
type Manager struct {
	capability platform.Capability
	runner     shell.Runner
	fs         afero.Fs
	download   Downloader
	scriptURL  string
	tempDir    string
	env        shell.Env
}

var _ Installer = (*Manager)(nil)

// NewManager builds a Manager fetching the bootstrap script from scriptURL
// into tempDir.
func NewManager(capability platform.Capability, runner shell.Runner, fs afero.Fs, download Downloader, scriptURL, tempDir string) *Manager {
	return &Manager{
		capability: capability,
		runner:     runner,
		fs:         fs,
		download:   download,
		scriptURL:  scriptURL,
		tempDir:    tempDir,
		env:        shell.ProcessEnv(),
	}
}

// Version returns the package manager's version line, or "" when it is absent.
func (m *Manager) Version(ctx context.Context) string {
	pm := m.capability.PackageManager()
	if pm == "" {
		return ""
	}
	result := m.runner.Run(ctx, pm+" --version", shell.Options{
		RequiredExecutable:         pm,
		SkipPackageManagerPrecheck: true,
	})
	if !result.Succeeded || result.Message == "" {
		return ""
	}
	return firstLine(result.Message)
}

// EnsureInstalled returns true once the package manager answers --version,
// running the bootstrap script and reloading PATH if it did not at first. Half of weight is
// reported after the probe, the rest when the manager is ready.
func (m *Manager) EnsureInstalled(ctx context.Context, sink progress.Sink, weight int) bool {
	pm := m.capability.PackageManager()
	if pm == "" {
		logger.Warn("[WARN] No package manager is known for %s\n", m.capability.Platform())
		return false
	}

	if version := m.Version(ctx); version != "" {
		logger.Info("[INFO] %s is installed: %s\n", pm, version)
		sink.Report(pm+" ready", weight)
		return true
	}
	sink.Report("Install "+pm, weight/2)

	if !m.bootstrap(ctx) {
		return false
	}
	// The script ran in another process: its PATH changes are not ours yet.
	shell.RefreshPath(ctx, m.runner, m.capability, m.fs, m.env)

	version := m.Version(ctx)
	if version == "" {
		logger.Error("[ERROR] %s still does not answer after bootstrap\n", pm)
		return false
	}
	logger.Info("[INFO] Installed %s: %s\n", pm, version)
	sink.Report(pm+" ready", weight-weight/2)
	return true
}

func (m *Manager) bootstrap(ctx context.Context) bool {
	pm := m.capability.PackageManager()
	if err := m.fs.MkdirAll(m.tempDir, 0o755); err != nil {
		logger.Error("[ERROR] Failed to create %s: %v\n", m.tempDir, err)
		return false
	}
	scriptPath := m.capability.Join(m.tempDir, path.Base(m.scriptURL))

	logger.Info("[INFO] Downloading %s installer from %s\n", pm, m.scriptURL)
	if err := m.download.Download(ctx, m.scriptURL, scriptPath); err != nil {
		logger.Error("[ERROR] Failed to download %s installer: %v\n", pm, err)
		return false
	}
	defer func() {
		if err := m.fs.Remove(scriptPath); err != nil {
			logger.Debug("[DEBUG] Failed to remove %s: %v\n", scriptPath, err)
		}
	}()

	cmd := m.capability.BootstrapCommand(scriptPath)
	opts := shell.OptionsFor(cmd)
	opts.SkipPackageManagerPrecheck = true

	result := m.runner.Run(ctx, cmd.Line, opts)
	if !result.Succeeded {
		logger.Error("[ERROR] %s installer failed: %s\n", pm, result.Error)
		return false
	}
	logger.Debug("[DEBUG] %s installer output: %s\n", pm, result.Message)
	return true
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' || r == '\r' {
			return s[:i]
		}
	}
	return s
}
