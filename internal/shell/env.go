package shell

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/afero"

	"git-setup/internal/logger"
	"git-setup/internal/platform"
)

// Env is the process environment PATH updates go through.
type Env struct {
	Getenv func(string) string
	Setenv func(key, value string) error
}

// ProcessEnv is the environment of the running process.
func ProcessEnv() Env {
	return Env{Getenv: os.Getenv, Setenv: os.Setenv}
}

// PrependPath puts dirs in front of PATH, skipping those already on it.
func (e Env) PrependPath(sep string, dirs ...string) error {
	current := e.Getenv("PATH")
	entries := strings.Split(current, sep)

	var missing []string
	for _, dir := range dirs {
		if !contains(entries, dir) && !contains(missing, dir) {
			missing = append(missing, dir)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if current != "" {
		missing = append(missing, current)
	}
	return e.Setenv("PATH", strings.Join(missing, sep))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// RefreshPath makes binaries installed by another process callable from this
// one: it reloads PATH the way a new session would see it, then prepends the
// package manager directories that exist on fs. Failures are logged only.
func RefreshPath(ctx context.Context, runner Runner, c platform.Capability, fs afero.Fs, env Env) {
	if line := c.RefreshPathCommand(); line != "" {
		result := runner.Run(ctx, line, Options{SkipPackageManagerPrecheck: true})
		switch {
		case !result.Succeeded || result.Message == "":
			logger.Warn("[WARN] Could not refresh PATH: %s\n", result.Error)
		default:
			if err := env.Setenv("PATH", result.Message); err != nil {
				logger.Warn("[WARN] Could not set PATH: %v\n", err)
			} else {
				logger.Debug("[DEBUG] PATH refreshed\n")
			}
		}
	}

	var dirs []string
	for _, dir := range c.PackageManagerBinDirs() {
		if exists, _ := afero.DirExists(fs, dir); exists {
			dirs = append(dirs, dir)
		}
	}
	if err := env.PrependPath(c.PathListSeparator(), dirs...); err != nil {
		logger.Warn("[WARN] Could not set PATH: %v\n", err)
	}
}
