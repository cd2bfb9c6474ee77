package progress

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Sink receives coarse completion increments and status messages.
type Sink interface {
	Report(message string, increment int)
}

// Discard is a Sink that ignores everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(string, int) {}

// Console prints a running percentage in front of each status message.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	title   string
	percent int
	color   *color.Color
}

// NewConsole builds a Console writing to stdout.
func NewConsole(title string) *Console {
	return NewConsoleTo(os.Stdout, title)
}

// NewConsoleTo builds a Console writing to w.
func NewConsoleTo(w io.Writer, title string) *Console {
	return &Console{
		out:   w,
		title: title,
		color: color.New(color.FgBlue),
	}
}

// Report adds increment to the running total, capped at 100, and prints the
// message.
func (c *Console) Report(message string, increment int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.percent += increment
	if c.percent > 100 {
		c.percent = 100
	}
	_, _ = c.color.Fprintf(c.out, "[%3d%%] %s: %s\n", c.percent, c.title, message)
}

// Percent returns the running total.
func (c *Console) Percent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.percent
}
