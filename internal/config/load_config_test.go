package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git-setup/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("should return defaults when the file is missing", func(t *testing.T) {
		t.Parallel()

		// when
		cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

		// then
		require.NoError(t, err)
		assert.Equal(t, "git", cfg.Git.Package)
		assert.Equal(t, "nano", cfg.Git.Editor)
		assert.Equal(t, config.MethodPackageManager, cfg.Git.Method)
		assert.Equal(t, "id_rsa", cfg.SSH.KeyName)
		assert.Equal(t, "rsa", cfg.SSH.KeyType)
		assert.NotEmpty(t, cfg.Logging.Dir)
		assert.True(t, cfg.CopyKey())
	})

	t.Run("should keep values from the file", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
git:
  editor: vim
  method: release
  min_version: "2.30"
  release:
    tag: v2.43.0.windows.1
ssh:
  key_type: ed25519
  key_name: id_ed25519
logging:
  dir: /var/tmp/gs
copy_key_after_install: false
`)

		// when
		cfg, err := config.LoadConfig(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "vim", cfg.Git.Editor)
		assert.Equal(t, config.MethodRelease, cfg.Git.Method)
		assert.Equal(t, "2.30", cfg.Git.MinVersion)
		assert.Equal(t, "v2.43.0.windows.1", cfg.Git.Release.Tag)
		assert.Equal(t, config.DefaultReleaseRepo, cfg.Git.Release.Repo)
		assert.Equal(t, "ed25519", cfg.SSH.KeyType)
		assert.Equal(t, "/var/tmp/gs", cfg.Logging.Dir)
		assert.False(t, cfg.CopyKey())
	})

	t.Run("should expand the home directory in paths", func(t *testing.T) {
		t.Parallel()

		// given
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		path := writeConfig(t, "logging:\n  dir: ~/gs-logs\n")

		// when
		cfg, err := config.LoadConfig(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "gs-logs"), cfg.Logging.Dir)
	})

	t.Run("should reject an unknown install method", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "git:\n  method: scoop\n")

		// when
		_, err := config.LoadConfig(path)

		// then
		require.ErrorContains(t, err, "git.method")
	})

	t.Run("should reject malformed yaml", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "git: [unterminated\n")

		// when
		_, err := config.LoadConfig(path)

		// then
		require.ErrorContains(t, err, "failed to unmarshal")
	})
}
