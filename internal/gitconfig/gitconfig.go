// Package gitconfig reads and writes global git settings through the git binary.
package gitconfig

import (
	"context"

	"git-setup/internal/logger"
	"git-setup/internal/outcome"
	"git-setup/internal/platform"
	"git-setup/internal/shell"
)

// Global keys managed by the tool.
const (
	KeyName   = "user.name"
	KeyEmail  = "user.email"
	KeyEditor = "core.editor"
)

// Identity is the user's attribution as configured in git. Either field may
// be empty.
type Identity struct {
	Name  string
	Email string
}

// Store is the global git configuration.
type Store struct {
	runner shell.Runner
	quote  func(string) string
}

// NewStore builds a Store that quotes values for capability's shell.
func NewStore(runner shell.Runner, capability platform.Capability) *Store {
	return &Store{runner: runner, quote: capability.Quote}
}

var gitOptions = shell.Options{RequiredExecutable: "git", SkipPackageManagerPrecheck: true}

// Get returns the value of key, or "" when it is unset or cannot be read.
func (s *Store) Get(ctx context.Context, key string) string {
	result := s.runner.Run(ctx, "git config --global "+key, gitOptions)
	if !result.Succeeded {
		logger.Debug("[DEBUG] git config %s unreadable: %s\n", key, result.Error)
		return ""
	}
	return result.Message
}

// Set writes value to key.
func (s *Store) Set(ctx context.Context, key, value string) outcome.Outcome {
	result := s.runner.Run(ctx, "git config --global "+key+" "+s.quote(value), gitOptions)
	if !result.Succeeded {
		logger.Warn("[WARN] Failed to set %s: %s\n", key, result.Error)
	}
	return result
}

// Identity reads name and email.
func (s *Store) Identity(ctx context.Context) Identity {
	return Identity{
		Name:  s.Get(ctx, KeyName),
		Email: s.Get(ctx, KeyEmail),
	}
}
