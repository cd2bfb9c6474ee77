package installer

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"

	"git-setup/internal/clock"
	"git-setup/internal/config"
	"git-setup/internal/logger"
	"git-setup/internal/outcome"
	"git-setup/internal/pkgmgr"
	"git-setup/internal/platform"
	"git-setup/internal/progress"
	"git-setup/internal/shell"
)

// Messages of the Outcomes the installer returns.
const (
	AlreadyInstalled           = "Already installed"
	UnsupportedPlatform        = "Unsupported platform"
	PackageManagerNotInstalled = "package manager could not be installed"
)

// Progress weights reported while installing.
const (
	packageManagerWeight = 30
	installWeight        = 35
)

// GitInstaller checks for git and installs it when it is missing.
type GitInstaller struct {
	capability platform.Capability
	runner     shell.Runner
	pm         pkgmgr.Installer
	release    *ReleaseInstaller
	fs         afero.Fs
	clock      clock.Clock
	cfg        config.Git
	logDir     string
	env        shell.Env
}

// NewGitInstaller builds a GitInstaller. release may be nil when the release
// method is not configured.
func NewGitInstaller(
	capability platform.Capability,
	runner shell.Runner,
	pm pkgmgr.Installer,
	release *ReleaseInstaller,
	fs afero.Fs,
	clk clock.Clock,
	cfg config.Config,
) *GitInstaller {
	return &GitInstaller{
		capability: capability,
		runner:     runner,
		pm:         pm,
		release:    release,
		fs:         fs,
		clock:      clk,
		cfg:        cfg.Git,
		logDir:     cfg.Logging.Dir,
		env:        shell.ProcessEnv(),
	}
}

// IsInstalled reports whether git is callable. It never fails: any error
// while probing means "not installed".
func (g *GitInstaller) IsInstalled(ctx context.Context) bool {
	probe := g.presence()
	opts := shell.OptionsFor(probe.Command)
	opts.SkipPackageManagerPrecheck = true

	result := g.runner.Run(ctx, probe.Command.Line, opts)
	installed := result.Succeeded && probe.Installed(result.Message)
	logger.Debug("[DEBUG] Git installed: %t\n", installed)
	return installed
}

// presence picks how to detect git. A release install bypasses the package
// manager, so only the binary itself can answer for it.
func (g *GitInstaller) presence() platform.Probe {
	if g.cfg.Method != config.MethodRelease {
		return g.capability.PresenceProbe(g.cfg.Package)
	}
	return platform.Probe{
		Command: g.capability.VersionCommand(),
		Installed: func(output string) bool {
			return strings.TrimSpace(output) != ""
		},
	}
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// Version parses the output of "git --version".
func (g *GitInstaller) Version(ctx context.Context) (*semver.Version, error) {
	cmd := g.capability.VersionCommand()
	opts := shell.OptionsFor(cmd)
	opts.SkipPackageManagerPrecheck = true

	result := g.runner.Run(ctx, cmd.Line, opts)
	if !result.Succeeded {
		return nil, fmt.Errorf("git --version failed: %s", result.Error)
	}
	return ParseVersion(result.Message)
}

// ParseVersion extracts the version from "git version 2.39.3 (Apple Git-145)"
// or "git version 2.43.0.windows.1".
func ParseVersion(output string) (*semver.Version, error) {
	raw := versionPattern.FindString(output)
	if raw == "" {
		return nil, fmt.Errorf("no version in %q", output)
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid git version %q: %w", raw, err)
	}
	return v, nil
}

// MeetsMinimum reports whether v satisfies the configured minimum version. An
// empty minimum accepts everything.
func (g *GitInstaller) MeetsMinimum(v *semver.Version) (bool, error) {
	if g.cfg.MinVersion == "" {
		return true, nil
	}
	c, err := semver.NewConstraint(">= " + g.cfg.MinVersion)
	if err != nil {
		return false, fmt.Errorf("invalid git.min_version %q: %w", g.cfg.MinVersion, err)
	}
	return c.Check(v), nil
}

// Install installs git unless it is already present. Re-running it after a
// success is a cheap no-op.
func (g *GitInstaller) Install(ctx context.Context, sink progress.Sink) outcome.Outcome {
	if g.IsInstalled(ctx) {
		logger.Info("[INFO] Git is already installed. Skipping.\n")
		sink.Report(AlreadyInstalled, packageManagerWeight+installWeight)
		return outcome.Success(AlreadyInstalled)
	}

	if g.capability.Platform() == platform.Unsupported {
		logger.Error("[ERROR] Cannot install git on this platform\n")
		return outcome.Failure(UnsupportedPlatform)
	}

	if g.cfg.Method == config.MethodRelease {
		return g.installFromRelease(ctx, sink)
	}

	if !g.pm.EnsureInstalled(ctx, sink, packageManagerWeight) {
		return outcome.Failure(PackageManagerNotInstalled)
	}
	sink.Report("Install Git", installWeight/2)

	result := g.installWithPackageManager(ctx)
	if result.Succeeded {
		sink.Report("Git installed", installWeight-installWeight/2)
	}
	return result
}

func (g *GitInstaller) installWithPackageManager(ctx context.Context) outcome.Outcome {
	logFile, err := g.newLogFile()
	if err != nil {
		return outcome.Failuref("Could not create install log: %v", err)
	}

	cmd := g.capability.InstallCommand(g.cfg.Package, logFile)
	opts := shell.OptionsFor(cmd)
	logger.Info("[INFO] Installing %s with %s (log: %s)\n", g.cfg.Package, g.capability.PackageManager(), logFile)

	result := g.runner.Run(ctx, cmd.Line, opts)
	g.appendLog(logFile, cmd.Line, result)

	if !result.Succeeded {
		logger.Error("[ERROR] Failed to install %s: %s\n", g.cfg.Package, result.Error)
		return result
	}

	// The package manager ran elevated, in another process.
	shell.RefreshPath(ctx, g.runner, g.capability, g.fs, g.env)
	logger.Info("[INFO] Installed %s\n", g.cfg.Package)
	return outcome.Successf("Installed %s (log: %s)", g.cfg.Package, logFile)
}

func (g *GitInstaller) installFromRelease(ctx context.Context, sink progress.Sink) outcome.Outcome {
	if g.capability.Platform() != platform.Windows || g.release == nil {
		return outcome.Failuref("release installs are only available on %s", platform.Windows)
	}
	sink.Report("Download Git", packageManagerWeight)

	result := g.release.Install(ctx)
	if !result.Succeeded {
		return result
	}
	sink.Report("Git installed", installWeight)
	return result
}

// newLogFile creates an empty timestamped install log and returns its path.
func (g *GitInstaller) newLogFile() (string, error) {
	if err := g.fs.MkdirAll(g.logDir, 0o750); err != nil {
		return "", err
	}
	name := "git-install-" + g.clock.Now().Format("20060102-150405") + ".log"
	logFile := g.capability.Join(g.logDir, name)
	f, err := g.fs.Create(logFile)
	if err != nil {
		return "", err
	}
	return logFile, f.Close()
}

// appendLog records the command and its captured output. On Windows the
// command tees into the same file from the elevated session.
func (g *GitInstaller) appendLog(logFile, line string, result outcome.Outcome) {
	f, err := g.fs.OpenFile(logFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o640)
	if err != nil {
		logger.Warn("[WARN] Unable to open %s: %v\n", logFile, err)
		return
	}
	defer f.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "$ %s\n", line)
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	if result.Error != "" {
		b.WriteString("error: " + result.Error + "\n")
	}
	if _, err := f.WriteString(b.String()); err != nil {
		logger.Warn("[WARN] Failed to write %s: %v\n", logFile, err)
	}
}
