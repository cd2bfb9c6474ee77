package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"git-setup/internal/logger"
)

// Defaults used when the config file leaves a value empty.
const (
	DefaultPackage          = "git"
	DefaultEditor           = "nano"
	DefaultKeyName          = "id_rsa"
	DefaultKeyType          = "rsa"
	DefaultReleaseRepo      = "git-for-windows/git"
	DefaultAssetPattern     = `^MinGit-[0-9.]+-64-bit\.zip$`
	DefaultHomebrewScript   = "https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh"
	DefaultChocolateyScript = "https://community.chocolatey.org/install.ps1"
	DefaultLogMaxSizeMB     = 5
	DefaultLogMaxBackups    = 3
	homeDirName             = ".git-setup"
)

// LoadConfig reads the YAML config at path and fills in defaults.
// A missing file is not an error: the defaults are returned.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug("[DEBUG] No config file at %s, using defaults\n", path)
	case err != nil:
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath is ~/.git-setup/config.yaml, or config.yaml in the working
// directory when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, homeDirName, "config.yaml")
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	setDefault(&cfg.Git.Package, DefaultPackage)
	setDefault(&cfg.Git.Editor, DefaultEditor)
	setDefault(&cfg.Git.Method, MethodPackageManager)
	setDefault(&cfg.Git.Release.Repo, DefaultReleaseRepo)
	setDefault(&cfg.Git.Release.AssetPattern, DefaultAssetPattern)
	setDefault(&cfg.SSH.KeyName, DefaultKeyName)
	setDefault(&cfg.SSH.KeyType, DefaultKeyType)
	setDefault(&cfg.PackageManager.HomebrewScript, DefaultHomebrewScript)
	setDefault(&cfg.PackageManager.ChocolateyScript, DefaultChocolateyScript)

	if cfg.Logging.Dir == "" || cfg.Git.Release.InstallDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		setDefault(&cfg.Logging.Dir, filepath.Join(home, homeDirName, "logs"))
		setDefault(&cfg.Git.Release.InstallDir, filepath.Join(home, homeDirName, "git"))
	}
	cfg.Logging.Dir = expandHome(cfg.Logging.Dir)
	cfg.Git.Release.InstallDir = expandHome(cfg.Git.Release.InstallDir)
	if cfg.Logging.MaxSizeMB <= 0 {
		cfg.Logging.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if cfg.Logging.MaxBackups <= 0 {
		cfg.Logging.MaxBackups = DefaultLogMaxBackups
	}
}

func validate(cfg Config) error {
	if cfg.Git.Method != MethodPackageManager && cfg.Git.Method != MethodRelease {
		return fmt.Errorf("git.method must be %q or %q, got %q", MethodPackageManager, MethodRelease, cfg.Git.Method)
	}
	if _, err := regexp.Compile(cfg.Git.Release.AssetPattern); err != nil {
		return fmt.Errorf("git.release.asset_pattern: %w", err)
	}
	return nil
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
