package progress_test

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"git-setup/internal/progress"
)

func TestConsole(t *testing.T) {
	color.NoColor = true

	t.Run("should accumulate increments and cap at 100", func(t *testing.T) {
		// given
		var buf bytes.Buffer
		c := progress.NewConsoleTo(&buf, "Install")

		// when
		c.Report("Start...", 5)
		c.Report("Install Git", 90)
		c.Report("Success", 10)

		// then
		assert.Equal(t, 100, c.Percent())
		assert.Equal(t, "[  5%] Install: Start...\n[ 95%] Install: Install Git\n[100%] Install: Success\n", buf.String())
	})

	t.Run("should ignore reports when discarding", func(t *testing.T) {
		assert.NotPanics(t, func() { progress.Discard.Report("x", 10) })
	})
}
