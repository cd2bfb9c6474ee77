// Package identity configures the global git identity and makes sure the user
// has an SSH key pair to go with it.
package identity

import (
	"context"
	"fmt"
	"strings"

	"git-setup/internal/gitconfig"
	"git-setup/internal/logger"
	"git-setup/internal/notify"
	"git-setup/internal/outcome"
	"git-setup/internal/sshkey"
)

// Prompt titles.
const (
	NamePrompt  = "[Git] your name"
	EmailPrompt = "[Git] your email"
)

// Presence tells whether git is callable.
type Presence interface {
	IsInstalled(ctx context.Context) bool
}

// Store reads and writes global git settings.
type Store interface {
	Get(ctx context.Context, key string) string
	Set(ctx context.Context, key, value string) outcome.Outcome
	Identity(ctx context.Context) gitconfig.Identity
}

// Prompter asks the user for a value. ok is false when the prompt was
// dismissed.
type Prompter interface {
	Ask(ctx context.Context, title, value string) (answer string, ok bool)
}

// KeyGenerator creates the SSH key pair.
type KeyGenerator interface {
	Generate(ctx context.Context, id gitconfig.Identity) (outcome.Outcome, error)
}

// StepResult is what a configuration step did.
type StepResult int

const (
	StepApplied StepResult = iota
	StepSkipped
	StepFailed
)

func (r StepResult) String() string {
	switch r {
	case StepApplied:
		return "applied"
	case StepSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Step is one entry of the configuration pipeline.
type Step struct {
	Name string
	Run  func(ctx context.Context) StepResult
}

// Configurator runs the identity pipeline.
type Configurator struct {
	presence Presence
	store    Store
	prompter Prompter
	keys     KeyGenerator
	notifier notify.Notifier
	editor   string
}

// NewConfigurator builds a Configurator writing editor to core.editor.
func NewConfigurator(presence Presence, store Store, prompter Prompter, keys KeyGenerator, notifier notify.Notifier, editor string) *Configurator {
	return &Configurator{
		presence: presence,
		store:    store,
		prompter: prompter,
		keys:     keys,
		notifier: notifier,
		editor:   editor,
	}
}

// Configure sets the editor, asks for name and email when they are empty (or
// always when force is set), reports the result and generates SSH keys. It
// does nothing when git is not installed. The only error is an unsupported
// platform surfacing from key directory resolution.
func (c *Configurator) Configure(ctx context.Context, force bool) error {
	if !c.presence.IsInstalled(ctx) {
		logger.Info("[INFO] Git is not installed, nothing to configure\n")
		return nil
	}

	for _, step := range c.Steps(force) {
		result := step.Run(ctx)
		logger.Debug("[DEBUG] %s: %s\n", step.Name, result)
	}

	// Read back: a skipped or failed write leaves the previous value.
	id := c.store.Identity(ctx)
	c.notifier.Info(fmt.Sprintf("git configured:\nuser.name: '%s'\nuser.email: '%s'", id.Name, id.Email))

	result, err := c.keys.Generate(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to resolve ssh keys: %w", err)
	}
	switch {
	case result.Succeeded && result.Message == sshkey.AlreadyHadKeys:
		logger.Debug("[DEBUG] %s\n", result.Message)
	case result.Succeeded:
		c.notifier.Info(result.Message)
	default:
		c.notifier.Error(result.Error)
	}
	return nil
}

// Steps returns the ordered pipeline. The editor goes first and ignores force.
func (c *Configurator) Steps(force bool) []Step {
	return []Step{
		{Name: "set " + gitconfig.KeyEditor, Run: c.setEditor},
		PromptIfEmpty(c.store, c.prompter, gitconfig.KeyName, NamePrompt, force),
		PromptIfEmpty(c.store, c.prompter, gitconfig.KeyEmail, EmailPrompt, force),
	}
}

func (c *Configurator) setEditor(ctx context.Context) StepResult {
	if result := c.store.Set(ctx, gitconfig.KeyEditor, c.editor); !result.Succeeded {
		return StepFailed
	}
	return StepApplied
}

// PromptIfEmpty builds a step that asks for key when its current value is
// empty or force is set, pre-filling the prompt with the current value. A
// dismissed prompt or a blank answer leaves the value unchanged.
func PromptIfEmpty(store Store, prompter Prompter, key, title string, force bool) Step {
	return Step{
		Name: "prompt " + key,
		Run: func(ctx context.Context) StepResult {
			current := store.Get(ctx, key)
			if current != "" && !force {
				return StepSkipped
			}

			answer, ok := prompter.Ask(ctx, title, current)
			answer = strings.TrimSpace(answer)
			if !ok || answer == "" {
				return StepSkipped
			}
			if result := store.Set(ctx, key, answer); !result.Succeeded {
				return StepFailed
			}
			return StepApplied
		},
	}
}
