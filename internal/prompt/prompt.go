// Package prompt asks the user for values on the terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"git-setup/internal/logger"
)

// ErrCanceled is returned when the user dismisses a prompt or no terminal is
// attached.
var ErrCanceled = errors.New("prompt canceled")

// Prompter runs single-field huh forms.
type Prompter struct {
	isTerminal func() bool
	accessible bool
}

// New returns a Prompter bound to stdin. Accessible mode is enabled when
// ACCESSIBLE is set, which huh renders as plain line prompts.
func New() *Prompter {
	return &Prompter{
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		accessible: os.Getenv("ACCESSIBLE") != "",
	}
}

// Ask shows title with value pre-filled. It reports false when the prompt was
// dismissed.
func (p *Prompter) Ask(ctx context.Context, title, value string) (string, bool) {
	answer := value
	field := huh.NewInput().
		Title(title).
		Value(&answer)

	if err := p.run(ctx, field); err != nil {
		if !errors.Is(err, ErrCanceled) {
			logger.Warn("[WARN] %v\n", err)
		}
		return "", false
	}
	return strings.TrimSpace(answer), true
}

// Confirm asks a yes/no question. A dismissed prompt counts as no.
func (p *Prompter) Confirm(ctx context.Context, question string) bool {
	confirmed := true
	field := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := p.run(ctx, field); err != nil {
		return false
	}
	return confirmed
}

func (p *Prompter) run(ctx context.Context, field huh.Field) error {
	// Without a terminal huh would block forever on stdin.
	if !p.isTerminal() {
		logger.Debug("[DEBUG] stdin is not a terminal, skipping prompt\n")
		return ErrCanceled
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(p.accessible).
		WithShowHelp(true)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCanceled
		}
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}
