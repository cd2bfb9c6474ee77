// Package clipboard writes text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility is present, e.g. on a
// headless Linux box without xclip or xsel.
var ErrUnavailable = errors.New("clipboard is not available")

// System is the OS clipboard.
type System struct{}

// Write replaces the clipboard content with text.
func (System) Write(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}
