package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileMirror(t *testing.T) {
	t.Run("should mirror console messages without the level prefix", func(t *testing.T) {
		// given
		var buf bytes.Buffer
		Init(false)
		SetFileWriter(&buf)
		t.Cleanup(Close)

		// when
		Info("[INFO] Installed %s\n", "git")

		// then
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "Installed git", entry["message"])
	})

	t.Run("should drop debug messages unless enabled", func(t *testing.T) {
		// given
		var buf bytes.Buffer
		Init(false)
		SetFileWriter(&buf)
		t.Cleanup(Close)

		// when
		Debug("[DEBUG] hidden\n")

		// then
		assert.Empty(t, buf.String())
	})

	t.Run("should write debug messages when enabled", func(t *testing.T) {
		// given
		var buf bytes.Buffer
		Init(true)
		SetFileWriter(&buf)
		t.Cleanup(func() {
			Close()
			Init(false)
		})

		// when
		Debug("[DEBUG] visible\n")

		// then
		assert.Contains(t, buf.String(), `"message":"visible"`)
	})
}

func TestInitFile(t *testing.T) {
	// given
	dir := filepath.Join(t.TempDir(), "logs")
	Init(false)
	t.Cleanup(Close)

	// when
	err := InitFile(FileOptions{Dir: dir, MaxSizeMB: 1, MaxBackups: 1})
	Warn("[WARN] something odd\n")

	// then
	require.NoError(t, err)
	data, readErr := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "something odd")
}
