package gitconfig_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"git-setup/internal/gitconfig"
	"git-setup/internal/outcome"
	"git-setup/internal/platform"
	"git-setup/internal/shell/shelltest"
)

func TestStore(t *testing.T) {
	t.Parallel()

	t.Run("should read global values through git", func(t *testing.T) {
		t.Parallel()

		// given
		runner := shelltest.New().EmulateGitConfig(map[string]string{gitconfig.KeyName: "Ana"})
		store := gitconfig.NewStore(runner, platform.For(platform.MacOS))

		// when
		id := store.Identity(context.Background())

		// then
		assert.Equal(t, gitconfig.Identity{Name: "Ana", Email: ""}, id)
		calls := runner.Calls()
		assert.True(t, calls[0].Options.SkipPackageManagerPrecheck)
		assert.Equal(t, "git", calls[0].Options.RequiredExecutable)
	})

	t.Run("should treat a failed read as empty", func(t *testing.T) {
		t.Parallel()

		// given
		runner := shelltest.New().On("git config", outcome.Failure("git is not installed"))
		store := gitconfig.NewStore(runner, platform.For(platform.MacOS))

		// when
		value := store.Get(context.Background(), gitconfig.KeyEmail)

		// then
		assert.Empty(t, value)
	})

	t.Run("should round trip a value containing quotes", func(t *testing.T) {
		t.Parallel()

		// given
		values := map[string]string{}
		runner := shelltest.New().EmulateGitConfig(values)
		store := gitconfig.NewStore(runner, platform.For(platform.MacOS))

		// when
		result := store.Set(context.Background(), gitconfig.KeyName, "Ana O'Neil")

		// then
		assert.True(t, result.Succeeded)
		assert.Equal(t, "git config --global user.name 'Ana O'\\''Neil'", runner.Commands()[0])
		assert.Equal(t, "Ana O'Neil", store.Get(context.Background(), gitconfig.KeyName))
	})

	t.Run("should quote for PowerShell on Windows", func(t *testing.T) {
		t.Parallel()

		// given
		runner := shelltest.New().On("git config", outcome.Success(""))
		store := gitconfig.NewStore(runner, platform.For(platform.Windows))

		// when
		store.Set(context.Background(), gitconfig.KeyName, "Ana O'Neil")

		// then
		assert.Equal(t, "git config --global user.name 'Ana O''Neil'", runner.Commands()[0])
	})
}
