package platform_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git-setup/internal/platform"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromGOOS(t *testing.T) {
	t.Parallel()

	assert.Equal(t, platform.MacOS, platform.FromGOOS("darwin"))
	assert.Equal(t, platform.Windows, platform.FromGOOS("windows"))
	assert.Equal(t, platform.Unsupported, platform.FromGOOS("linux"))
	assert.Equal(t, platform.Unsupported, platform.FromGOOS("plan9"))
	assert.Equal(t, "macOS", platform.MacOS.String())
}

func TestKeyDirectory(t *testing.T) {
	t.Parallel()

	t.Run("should resolve home relative .ssh on macOS", func(t *testing.T) {
		t.Parallel()

		// given
		c := platform.For(platform.MacOS)

		// when
		dir, err := c.KeyDirectory(env(map[string]string{"HOME": "/Users/ana"}))

		// then
		require.NoError(t, err)
		assert.Equal(t, "/Users/ana/.ssh", dir)
	})

	t.Run("should resolve drive and home path on Windows", func(t *testing.T) {
		t.Parallel()

		// given
		c := platform.For(platform.Windows)

		// when
		dir, err := c.KeyDirectory(env(map[string]string{"HOMEDRIVE": "C:", "HOMEPATH": `\Users\ana`}))

		// then
		require.NoError(t, err)
		assert.Equal(t, `C:\Users\ana\.ssh`, dir)
	})

	t.Run("should fail with ErrUnsupported elsewhere", func(t *testing.T) {
		t.Parallel()

		// given
		c := platform.For(platform.Unsupported)

		// when
		_, err := c.KeyDirectory(env(map[string]string{"HOME": "/home/ana"}))

		// then
		require.ErrorIs(t, err, platform.ErrUnsupported)
	})
}

func TestQuote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `'it'\''s'`, platform.For(platform.MacOS).Quote("it's"))
	assert.Equal(t, `'it''s'`, platform.For(platform.Windows).Quote("it's"))
}

func TestPresenceProbe(t *testing.T) {
	t.Parallel()

	t.Run("should treat any version output as installed on macOS", func(t *testing.T) {
		t.Parallel()

		probe := platform.For(platform.MacOS).PresenceProbe("git")

		assert.Equal(t, "git --version", probe.Command.Line)
		assert.Equal(t, "git", probe.Command.RequiredExecutable)
		assert.True(t, probe.Installed("git version 2.39.3 (Apple Git-145)"))
		assert.False(t, probe.Installed("  \n"))
	})

	t.Run("should match the chocolatey package id on Windows", func(t *testing.T) {
		t.Parallel()

		probe := platform.For(platform.Windows).PresenceProbe("git")

		assert.True(t, probe.Installed("chocolatey|2.2.2\r\nGit|2.43.0\r\n"))
		assert.False(t, probe.Installed("git.install|2.43.0"))
		assert.False(t, probe.Installed(""))
	})
}

func TestWindowsElevate(t *testing.T) {
	t.Parallel()

	// given
	c := platform.For(platform.Windows)

	// when
	line := c.Elevate("choco install git -y")

	// then
	assert.Contains(t, line, "-Verb RunAs")
	start := strings.Index(line, "'-EncodedCommand','") + len("'-EncodedCommand','")
	end := strings.Index(line[start:], "'")
	raw, err := base64.StdEncoding.DecodeString(line[start : start+end])
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 0, 'h', 0}, raw[:4])
}

func TestKeygenCommand(t *testing.T) {
	t.Parallel()

	t.Run("should pass an empty passphrase on macOS", func(t *testing.T) {
		t.Parallel()

		cmd := platform.For(platform.MacOS).KeygenCommand("rsa", "/Users/ana/.ssh/id_rsa", "ana@x.com")

		assert.Equal(t, "ssh-keygen -t 'rsa' -C 'ana@x.com' -f '/Users/ana/.ssh/id_rsa' -q -N '' < /dev/null", cmd.Line)
		assert.Equal(t, "ssh-keygen", cmd.RequiredExecutable)
	})

	t.Run("should pass an empty comment as a real argument on Windows", func(t *testing.T) {
		t.Parallel()

		// when
		cmd := platform.For(platform.Windows).KeygenCommand("rsa", `C:\Users\ana\.ssh\id_rsa`, "")

		// then
		assert.Equal(t, `ssh-keygen -t 'rsa' -C '""' -f 'C:\Users\ana\.ssh\id_rsa' -q -N '""'`, cmd.Line)
		assert.NotContains(t, cmd.Line, "''")
	})

	t.Run("should quote a non-empty comment on Windows", func(t *testing.T) {
		t.Parallel()

		// when
		cmd := platform.For(platform.Windows).KeygenCommand("ed25519", `C:\Users\ana\.ssh\id_ed25519`, "o'brien@x.com")

		// then
		assert.Equal(t, `ssh-keygen -t 'ed25519' -C 'o''brien@x.com' -f 'C:\Users\ana\.ssh\id_ed25519' -q -N '""'`, cmd.Line)
	})
}

func TestInstallCommand(t *testing.T) {
	t.Parallel()

	mac := platform.For(platform.MacOS).InstallCommand("git", "/tmp/x.log")
	win := platform.For(platform.Windows).InstallCommand("git", `C:\logs\x.log`)

	assert.Equal(t, "brew install 'git'", mac.Line)
	assert.False(t, mac.Elevated)
	assert.True(t, win.Elevated)
	assert.Contains(t, win.Line, `Tee-Object -FilePath 'C:\logs\x.log'`)
	assert.Empty(t, platform.For(platform.Unsupported).InstallCommand("git", "").Line)
}
