package platform

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf16"
)

// windows installs through Chocolatey from a PowerShell session.
type windows struct{}

// Platform reports Windows.
func (windows) Platform() Platform {
	return Windows
}

// PackageManager is Chocolatey's executable.
func (windows) PackageManager() string {
	return "choco"
}

// Shell runs command in Windows PowerShell without loading the user profile.
func (windows) Shell(command string) (string, []string) {
	return "powershell", []string{"-NoProfile", "-NonInteractive", "-Command", command}
}

// Elevate starts a second PowerShell through UAC and propagates its exit code.
// The command travels base64 encoded so no quoting survives into the child.
func (windows) Elevate(command string) string {
	return "$p = Start-Process -FilePath powershell -Verb RunAs -Wait -PassThru " +
		"-ArgumentList '-NoProfile','-NonInteractive','-EncodedCommand','" + encodeCommand(command) + "'; " +
		"exit $p.ExitCode"
}

// Quote wraps s in single quotes, doubling embedded ones.
func (windows) Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Join joins path elements with backslashes. It never touches the host
// filesystem, so it is usable when the tool itself runs elsewhere.
func (windows) Join(elem ...string) string {
	parts := make([]string, 0, len(elem))
	for i, e := range elem {
		if i > 0 {
			e = strings.TrimLeft(e, `\/`)
		}
		if i < len(elem)-1 {
			e = strings.TrimRight(e, `\/`)
		}
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, `\`)
}

// PathListSeparator separates PATH entries.
func (windows) PathListSeparator() string {
	return ";"
}

// VersionCommand asks git for its version.
func (windows) VersionCommand() Command {
	return Command{Line: "git --version", RequiredExecutable: "git"}
}

// PresenceProbe lists locally installed Chocolatey packages in the
// "id|version" form and matches on the package id.
func (w windows) PresenceProbe(pkg string) Probe {
	return Probe{
		Command: Command{
			Line:               "choco list --limit-output --exact " + w.Quote(pkg),
			RequiredExecutable: "choco",
		},
		Installed: func(output string) bool {
			prefix := strings.ToLower(pkg) + "|"
			for _, line := range strings.Split(output, "\n") {
				if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), prefix) {
					return true
				}
			}
			return false
		},
	}
}

// InstallCommand installs pkg elevated and tees the output into logFile from
// inside the elevated session.
func (w windows) InstallCommand(pkg, logFile string) Command {
	return Command{
		Line: fmt.Sprintf("choco install %s -y --no-progress *>&1 | Tee-Object -FilePath %s; exit $LASTEXITCODE",
			w.Quote(pkg), w.Quote(logFile)),
		Elevated:           true,
		RequiredExecutable: "choco",
	}
}

// BootstrapCommand runs the downloaded install.ps1 elevated, with TLS 1.2
// enabled for its own downloads.
func (w windows) BootstrapCommand(scriptPath string) Command {
	return Command{
		Line: "Set-ExecutionPolicy Bypass -Scope Process -Force; " +
			"[System.Net.ServicePointManager]::SecurityProtocol = [System.Net.ServicePointManager]::SecurityProtocol -bor 3072; " +
			"& " + w.Quote(scriptPath),
		Elevated: true,
	}
}

// RefreshPathCommand prints the machine and user PATH from the registry,
// which is where Chocolatey and MinGit installs record themselves.
func (windows) RefreshPathCommand() string {
	return "[Environment]::GetEnvironmentVariable('Path','Machine') + ';' + [Environment]::GetEnvironmentVariable('Path','User')"
}

// PackageManagerBinDirs is empty: RefreshPathCommand already picks up
// Chocolatey's bin directory.
func (windows) PackageManagerBinDirs() []string {
	return nil
}

// KeyDirectory is HOMEDRIVE+HOMEPATH\.ssh, falling back to USERPROFILE\.ssh.
func (w windows) KeyDirectory(getenv func(string) string) (string, error) {
	home := getenv("HOMEDRIVE") + getenv("HOMEPATH")
	if home == "" {
		home = getenv("USERPROFILE")
	}
	if home == "" {
		return "", fmt.Errorf("neither HOMEDRIVE/HOMEPATH nor USERPROFILE is set")
	}
	return w.Join(home, ".ssh"), nil
}

// CreatesKeyDirectory is true: .ssh often does not exist on a fresh Windows
// profile.
func (windows) CreatesKeyDirectory() bool {
	return true
}

// KeygenCommand generates an unprotected key pair. Empty values are passed as
// '""' because Windows PowerShell drops empty arguments to native programs.
func (w windows) KeygenCommand(keyType, keyPath, comment string) Command {
	return Command{
		Line: fmt.Sprintf(`ssh-keygen -t %s -C %s -f %s -q -N %s`,
			w.nativeArg(keyType), w.nativeArg(comment), w.nativeArg(keyPath), w.nativeArg("")),
		RequiredExecutable: "ssh-keygen",
	}
}

// nativeArg quotes s for a native executable, keeping an empty value as an
// actual empty argument.
func (w windows) nativeArg(s string) string {
	if s == "" {
		return `'""'`
	}
	return w.Quote(s)
}

// encodeCommand produces the UTF-16LE base64 form -EncodedCommand expects.
func encodeCommand(command string) string {
	units := utf16.Encode([]rune(command))
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	return base64.StdEncoding.EncodeToString(buf)
}
