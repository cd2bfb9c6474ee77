package platform

import (
	"fmt"
	"path"
	"strings"
)

// posix holds the /bin/sh dialect shared by macOS and unsupported platforms.
type posix struct{}

// Shell runs command through /bin/sh.
func (posix) Shell(command string) (string, []string) {
	return "/bin/sh", []string{"-c", command}
}

// Elevate runs command as root through sudo, which may ask for a password on
// the terminal.
func (p posix) Elevate(command string) string {
	return "sudo /bin/sh -c " + p.Quote(command)
}

// Quote wraps s in single quotes; an embedded quote closes, escapes and
// reopens the string.
func (posix) Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Join joins path elements with slashes.
func (posix) Join(elem ...string) string {
	return path.Join(elem...)
}

// PathListSeparator separates PATH entries.
func (posix) PathListSeparator() string {
	return ":"
}

// VersionCommand asks git for its version.
func (posix) VersionCommand() Command {
	return Command{Line: "git --version", RequiredExecutable: "git"}
}

// PresenceProbe treats any output of "git --version" as installed; the
// package name is irrelevant because the binary answers for itself.
func (p posix) PresenceProbe(string) Probe {
	return Probe{
		Command: p.VersionCommand(),
		Installed: func(output string) bool {
			return strings.TrimSpace(output) != ""
		},
	}
}

// RefreshPathCommand is empty: a POSIX shell has no registry to reload PATH
// from.
func (posix) RefreshPathCommand() string {
	return ""
}

// macOS installs through Homebrew and keeps keys in ~/.ssh.
type macOS struct {
	posix
}

// Platform reports macOS.
func (macOS) Platform() Platform {
	return MacOS
}

// PackageManager is Homebrew's executable.
func (macOS) PackageManager() string {
	return "brew"
}

// InstallCommand runs unelevated because Homebrew refuses to run as root.
// The caller writes the log file from the captured output.
func (m macOS) InstallCommand(pkg, _ string) Command {
	return Command{
		Line:               "brew install " + m.Quote(pkg),
		RequiredExecutable: "brew",
	}
}

// BootstrapCommand runs the downloaded Homebrew install.sh without prompts.
func (m macOS) BootstrapCommand(scriptPath string) Command {
	return Command{
		Line:               "NONINTERACTIVE=1 /bin/bash " + m.Quote(scriptPath),
		RequiredExecutable: "bash",
	}
}

// PackageManagerBinDirs lists where install.sh puts brew: /opt/homebrew on
// Apple Silicon, /usr/local on Intel.
func (macOS) PackageManagerBinDirs() []string {
	return []string{"/opt/homebrew/bin", "/usr/local/bin"}
}

// KeyDirectory is $HOME/.ssh.
func (macOS) KeyDirectory(getenv func(string) string) (string, error) {
	home := getenv("HOME")
	if home == "" {
		return "", fmt.Errorf("HOME is not set")
	}
	return path.Join(home, ".ssh"), nil
}

// CreatesKeyDirectory is false: ~/.ssh is expected to exist on macOS.
func (macOS) CreatesKeyDirectory() bool {
	return false
}

// KeygenCommand generates an unprotected key pair. Stdin is closed so
// ssh-keygen cannot stop on an overwrite question.
func (m macOS) KeygenCommand(keyType, keyPath, comment string) Command {
	return Command{
		Line: fmt.Sprintf("ssh-keygen -t %s -C %s -f %s -q -N '' < /dev/null",
			m.Quote(keyType), m.Quote(comment), m.Quote(keyPath)),
		RequiredExecutable: "ssh-keygen",
	}
}

// unsupported keeps the POSIX dialect for presence probing but has no package
// manager and no key directory convention.
type unsupported struct {
	posix
}

// Platform reports Unsupported.
func (unsupported) Platform() Platform {
	return Unsupported
}

func (unsupported) PackageManager() string {
	return ""
}

func (unsupported) InstallCommand(string, string) Command {
	return Command{}
}

func (unsupported) BootstrapCommand(string) Command {
	return Command{}
}

// PackageManagerBinDirs is empty.
func (unsupported) PackageManagerBinDirs() []string {
	return nil
}

// KeyDirectory always fails with ErrUnsupported.
func (unsupported) KeyDirectory(func(string) string) (string, error) {
	return "", fmt.Errorf("no ssh key directory convention: %w", ErrUnsupported)
}

func (unsupported) CreatesKeyDirectory() bool {
	return false
}

func (unsupported) KeygenCommand(string, string, string) Command {
	return Command{}
}
