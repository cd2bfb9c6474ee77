package platform

import (
	"errors"
	"runtime"
)

// ErrUnsupported is returned when an operation has no known convention on the
// current platform.
var ErrUnsupported = errors.New("unsupported platform")

// Platform is the operating environment the tool drives.
type Platform int

const (
	Unsupported Platform = iota
	MacOS
	Windows
)

// Detect maps the running GOOS to a Platform.
func Detect() Platform {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps a GOOS value to a Platform. Anything other than darwin and
// windows is Unsupported.
func FromGOOS(goos string) Platform {
	switch goos {
	case "darwin":
		return MacOS
	case "windows":
		return Windows
	default:
		return Unsupported
	}
}

func (p Platform) String() string {
	switch p {
	case MacOS:
		return "macOS"
	case Windows:
		return "Windows"
	default:
		return "unsupported"
	}
}

// Command is a shell command line together with the execution requirements
// the platform attaches to it.
type Command struct {
	Line               string
	Elevated           bool
	RequiredExecutable string
}

// Probe describes how to ask the platform whether a package is installed.
// Installed interprets the output of a successful run of Command.
type Probe struct {
	Command   Command
	Installed func(output string) bool
}

// Capability bundles every platform-specific decision the workflow needs.
type Capability interface {
	Platform() Platform

	// PackageManager is the package manager executable name, empty when the
	// platform has none.
	PackageManager() string

	// Shell returns the program and arguments that run command in this
	// platform's shell dialect.
	Shell(command string) (string, []string)
	// Elevate wraps command so that it runs with administrator privileges.
	Elevate(command string) string
	Quote(s string) string
	Join(elem ...string) string
	PathListSeparator() string

	VersionCommand() Command
	PresenceProbe(pkg string) Probe
	InstallCommand(pkg, logFile string) Command
	BootstrapCommand(scriptPath string) Command
	// RefreshPathCommand prints the PATH a fresh session would see. Empty when
	// the platform needs no refresh after an install.
	RefreshPathCommand() string
	// PackageManagerBinDirs are directories the package manager bootstrap may
	// install into without the current process seeing them on PATH.
	PackageManagerBinDirs() []string

	KeyDirectory(getenv func(string) string) (string, error)
	CreatesKeyDirectory() bool
	KeygenCommand(keyType, keyPath, comment string) Command
}

// For returns the Capability implementation of p.
func For(p Platform) Capability {
	switch p {
	case MacOS:
		return macOS{}
	case Windows:
		return windows{}
	default:
		return unsupported{}
	}
}
