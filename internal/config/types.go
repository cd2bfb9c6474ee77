package config

// Install methods accepted by Git.Method.
const (
	MethodPackageManager = "package-manager"
	MethodRelease        = "release"
)

// Git describes which package provides git and how the tool configures it.
// - Package: Homebrew formula or Chocolatey package id.
// - Editor: value written to core.editor.
// - Method: "package-manager" (default) or "release".
// - MinVersion: optional lowest acceptable version, e.g. "2.30".
type Git struct {
	Package    string  `yaml:"package"`
	Editor     string  `yaml:"editor"`
	Method     string  `yaml:"method"`
	MinVersion string  `yaml:"min_version"`
	Release    Release `yaml:"release"`
}

// Release points at a GitHub release carrying a portable git build.
// - Repo: GitHub repo, e.g. git-for-windows/git.
// - Tag: release tag; empty means the latest release.
// - AssetPattern: regular expression the asset name must match.
// - InstallDir: directory the archive is extracted into.
type Release struct {
	Repo         string `yaml:"repo"`
	Tag          string `yaml:"tag"`
	AssetPattern string `yaml:"asset_pattern"`
	InstallDir   string `yaml:"install_dir"`
}

// SSH controls the generated key pair.
type SSH struct {
	KeyName string `yaml:"key_name"`
	KeyType string `yaml:"key_type"`
}

// PackageManager holds the bootstrap script locations.
type PackageManager struct {
	HomebrewScript   string `yaml:"homebrew_script"`
	ChocolateyScript string `yaml:"chocolatey_script"`
}

// Logging controls where console output and install logs are written.
type Logging struct {
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Config is the top-level structure returned after loading the YAML configuration.
type Config struct {
	Git                 Git            `yaml:"git"`
	SSH                 SSH            `yaml:"ssh"`
	PackageManager      PackageManager `yaml:"package_manager"`
	Logging             Logging        `yaml:"logging"`
	CopyKeyAfterInstall *bool          `yaml:"copy_key_after_install"`
}

// CopyKey reports whether the public key is copied after a successful install.
func (c Config) CopyKey() bool {
	return c.CopyKeyAfterInstall == nil || *c.CopyKeyAfterInstall
}
