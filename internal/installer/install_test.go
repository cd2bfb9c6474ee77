package installer_test

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git-setup/internal/clock"
	"git-setup/internal/config"
	"git-setup/internal/installer"
	"git-setup/internal/outcome"
	"git-setup/internal/platform"
	"git-setup/internal/progress"
	"git-setup/internal/shell/shelltest"
)

type stubPackageManager struct {
	Result bool
	Calls  int
}

func (s *stubPackageManager) EnsureInstalled(_ context.Context, sink progress.Sink, weight int) bool {
	s.Calls++
	if s.Result {
		sink.Report("package manager ready", weight)
	}
	return s.Result
}

type recordingSink struct {
	Messages []string
	Total    int
}

func (s *recordingSink) Report(message string, increment int) {
	s.Messages = append(s.Messages, message)
	s.Total += increment
}

var installedAt = clock.Fixed(time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC))

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Logging.Dir = "/logs"
	return cfg
}

func TestIsInstalled(t *testing.T) {
	t.Parallel()

	t.Run("should report true when git answers", func(t *testing.T) {
		t.Parallel()

		// given
		runner := shelltest.New().On("git --version", outcome.Success("git version 2.39.3 (Apple Git-145)"))
		g := installer.NewGitInstaller(platform.For(platform.MacOS), runner, &stubPackageManager{}, nil,
			afero.NewMemMapFs(), installedAt, testConfig())

		// when
		installed := g.IsInstalled(context.Background())

		// then
		assert.True(t, installed)
	})

	t.Run("should report false when the probe fails", func(t *testing.T) {
		t.Parallel()

		// given
		runner := shelltest.New().On("git --version", outcome.Failure("git is not installed"))
		g := installer.NewGitInstaller(platform.For(platform.MacOS), runner, &stubPackageManager{}, nil,
			afero.NewMemMapFs(), installedAt, testConfig())

		// when
		installed := g.IsInstalled(context.Background())

		// then
		assert.False(t, installed)
	})

	t.Run("should match the Chocolatey package id", func(t *testing.T) {
		t.Parallel()

		// given
		runner := shelltest.New().On("choco list", outcome.Success("git.install|2.43.0\ngit|2.43.0"))
		g := installer.NewGitInstaller(platform.For(platform.Windows), runner, &stubPackageManager{}, nil,
			afero.NewMemMapFs(), installedAt, testConfig())

		// when
		installed := g.IsInstalled(context.Background())

		// then
		assert.True(t, installed)
		assert.Equal(t, []string{"choco list --limit-output --exact 'git'"}, runner.Commands())
	})

	t.Run("should ask git itself when installed from a release", func(t *testing.T) {
		t.Parallel()

		// given
		runner := shelltest.New().
			On("git --version", outcome.Success("git version 2.43.0.windows.1")).
			On("choco list", outcome.Failure("choco is not installed"))
		cfg := testConfig()
		cfg.Git.Method = config.MethodRelease
		g := installer.NewGitInstaller(platform.For(platform.Windows), runner, &stubPackageManager{}, nil,
			afero.NewMemMapFs(), installedAt, cfg)

		// when
		installed := g.IsInstalled(context.Background())

		// then
		assert.True(t, installed)
		assert.Equal(t, []string{"git --version"}, runner.Commands())
	})

	t.Run("should not take a similarly named package for git", func(t *testing.T) {
		t.Parallel()

		// given
		runner := shelltest.New().On("choco list", outcome.Success("gitkraken|9.0.0"))
		g := installer.NewGitInstaller(platform.For(platform.Windows), runner, &stubPackageManager{}, nil,
			afero.NewMemMapFs(), installedAt, testConfig())

		// when
		installed := g.IsInstalled(context.Background())

		// then
		assert.False(t, installed)
	})
}

func TestInstall(t *testing.T) {
	t.Parallel()

	t.Run("should install git and write a timestamped log", func(t *testing.T) {
		t.Parallel()

		// given
		installed := false
		runner := shelltest.New().
			OnFunc("git --version", func(string) outcome.Outcome {
				if installed {
					return outcome.Success("git version 2.44.0")
				}
				return outcome.Failure("git is not installed")
			}).
			OnFunc("brew install", func(string) outcome.Outcome {
				installed = true
				return outcome.Success("==> Pouring git--2.44.0.arm64_sonoma.bottle.tar.gz")
			})
		fs := afero.NewMemMapFs()
		pm := &stubPackageManager{Result: true}
		sink := &recordingSink{}
		g := installer.NewGitInstaller(platform.For(platform.MacOS), runner, pm, nil, fs, installedAt, testConfig())

		// when
		result := g.Install(context.Background(), sink)

		// then
		require.True(t, result.Succeeded, result.Error)
		assert.Equal(t, 1, pm.Calls)
		assert.Equal(t, 65, sink.Total)
		assert.Contains(t, runner.Commands(), "brew install 'git'")

		data, err := afero.ReadFile(fs, "/logs/git-install-20261016-093000.log")
		require.NoError(t, err)
		assert.Contains(t, string(data), "$ brew install 'git'")
		assert.Contains(t, string(data), "Pouring git")
	})

	t.Run("should be a no-op when run a second time", func(t *testing.T) {
		t.Parallel()

		// given
		installed := false
		runner := shelltest.New().
			OnFunc("git --version", func(string) outcome.Outcome {
				if installed {
					return outcome.Success("git version 2.44.0")
				}
				return outcome.Failure("git is not installed")
			}).
			OnFunc("brew install", func(string) outcome.Outcome {
				installed = true
				return outcome.Success("")
			})
		pm := &stubPackageManager{Result: true}
		g := installer.NewGitInstaller(platform.For(platform.MacOS), runner, pm, nil,
			afero.NewMemMapFs(), installedAt, testConfig())
		require.True(t, g.Install(context.Background(), progress.Discard).Succeeded)

		// when
		result := g.Install(context.Background(), progress.Discard)

		// then
		assert.Equal(t, outcome.Success(installer.AlreadyInstalled), result)
		assert.Equal(t, 1, pm.Calls)
		assert.Equal(t, 1, runner.Count("brew install"))
	})

	t.Run("should fail on an unsupported platform without touching a package manager", func(t *testing.T) {
		t.Parallel()

		// given
		runner := shelltest.New().On("git --version", outcome.Failure("git is not installed"))
		pm := &stubPackageManager{Result: true}
		g := installer.NewGitInstaller(platform.For(platform.Unsupported), runner, pm, nil,
			afero.NewMemMapFs(), installedAt, testConfig())

		// when
		result := g.Install(context.Background(), progress.Discard)

		// then
		assert.Equal(t, outcome.Failure(installer.UnsupportedPlatform), result)
		assert.Zero(t, pm.Calls)
		assert.Equal(t, []string{"git --version"}, runner.Commands())
	})

	t.Run("should stop when the package manager cannot be installed", func(t *testing.T) {
		t.Parallel()

		// given
		runner := shelltest.New().On("git --version", outcome.Failure("git is not installed"))
		g := installer.NewGitInstaller(platform.For(platform.MacOS), runner, &stubPackageManager{}, nil,
			afero.NewMemMapFs(), installedAt, testConfig())

		// when
		result := g.Install(context.Background(), progress.Discard)

		// then
		assert.Equal(t, outcome.Failure(installer.PackageManagerNotInstalled), result)
		assert.Zero(t, runner.Count("brew install"))
	})

	t.Run("should return the failure of the install command", func(t *testing.T) {
		t.Parallel()

		// given
		runner := shelltest.New().
			On("git --version", outcome.Failure("git is not installed")).
			On("brew install", outcome.Failure("Error: No available formula with the name \"git\""))
		g := installer.NewGitInstaller(platform.For(platform.MacOS), runner, &stubPackageManager{Result: true}, nil,
			afero.NewMemMapFs(), installedAt, testConfig())

		// when
		result := g.Install(context.Background(), progress.Discard)

		// then
		assert.False(t, result.Succeeded)
		assert.Contains(t, result.Error, "No available formula")
	})

	t.Run("should install elevated through Chocolatey and refresh PATH", func(t *testing.T) {
		t.Parallel()

		// given
		runner := shelltest.New().
			On("choco list", outcome.Success("")).
			On("choco install", outcome.Success("The install of git was successful.")).
			On("[Environment]::GetEnvironmentVariable", outcome.Success(`C:\Windows;C:\Program Files\Git\cmd`))
		cfg := testConfig()
		cfg.Logging.Dir = `C:\logs`
		g := installer.NewGitInstaller(platform.For(platform.Windows), runner, &stubPackageManager{Result: true}, nil,
			afero.NewMemMapFs(), installedAt, cfg)
		env := map[string]string{}
		g.SetEnv(mapEnv(env))

		// when
		result := g.Install(context.Background(), progress.Discard)

		// then
		require.True(t, result.Succeeded, result.Error)
		calls := runner.Calls()
		require.Len(t, calls, 3)
		assert.True(t, calls[1].Options.RequireElevation)
		assert.Contains(t, calls[1].Command, `Tee-Object -FilePath 'C:\logs\git-install-20261016-093000.log'`)
		assert.Equal(t, `C:\Windows;C:\Program Files\Git\cmd`, env["PATH"])
	})

	t.Run("should refuse the release method outside Windows", func(t *testing.T) {
		t.Parallel()

		// given
		runner := shelltest.New().On("git --version", outcome.Failure("git is not installed"))
		cfg := testConfig()
		cfg.Git.Method = config.MethodRelease
		pm := &stubPackageManager{Result: true}
		g := installer.NewGitInstaller(platform.For(platform.MacOS), runner, pm, nil,
			afero.NewMemMapFs(), installedAt, cfg)

		// when
		result := g.Install(context.Background(), progress.Discard)

		// then
		assert.False(t, result.Succeeded)
		assert.Zero(t, pm.Calls)
	})
}

func TestVersion(t *testing.T) {
	t.Parallel()

	t.Run("should parse Apple and Windows version strings", func(t *testing.T) {
		t.Parallel()

		for output, want := range map[string]string{
			"git version 2.39.3 (Apple Git-145)": "2.39.3",
			"git version 2.43.0.windows.1":       "2.43.0",
			"git version 2.9":                    "2.9.0",
		} {
			// when
			v, err := installer.ParseVersion(output)

			// then
			require.NoError(t, err, output)
			assert.Equal(t, want, v.String(), output)
		}
	})

	t.Run("should fail without a version number", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := installer.ParseVersion("command not found")

		// then
		require.Error(t, err)
	})

	t.Run("should compare against the configured minimum", func(t *testing.T) {
		t.Parallel()

		// given
		runner := shelltest.New().On("git --version", outcome.Success("git version 2.25.1"))
		cfg := testConfig()
		cfg.Git.MinVersion = "2.30"
		g := installer.NewGitInstaller(platform.For(platform.MacOS), runner, &stubPackageManager{}, nil,
			afero.NewMemMapFs(), installedAt, cfg)

		// when
		v, err := g.Version(context.Background())
		require.NoError(t, err)
		ok, err := g.MeetsMinimum(v)

		// then
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
