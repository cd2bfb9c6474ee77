package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color" // Import the fatih/color package for colored console output
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Colorized printers for the console. Every message printed through Info, Warn,
// Error or Debug is also mirrored into the log file once InitFile has run.
var (
	infoPrinter  = color.New(color.FgGreen).PrintfFunc()
	warnPrinter  = color.New(color.FgHiMagenta).PrintfFunc()
	errorPrinter = color.New(color.FgRed).PrintfFunc()
	debugPrinter = color.New(color.FgCyan).PrintfFunc()
)

var (
	debugEnabled bool
	fileLog      = zerolog.Nop()
	fileWriter   io.Closer
)

// FileOptions configures the rotating log file.
type FileOptions struct {
	Dir        string
	MaxSizeMB  int
	MaxBackups int
}

// FileName is the name of the rotating log inside FileOptions.Dir.
const FileName = "git-setup.log"

// Info logs informational messages in green color.
func Info(format string, a ...any) {
	infoPrinter(format, a...)
	fileLog.Info().Msg(flatten(format, a...))
}

// Warn logs warning messages in bright magenta color.
func Warn(format string, a ...any) {
	warnPrinter(format, a...)
	fileLog.Warn().Msg(flatten(format, a...))
}

// Error logs error messages in red color.
func Error(format string, a ...any) {
	errorPrinter(format, a...)
	fileLog.Error().Msg(flatten(format, a...))
}

// Debug logs debug messages in cyan color when debug logging is enabled,
// otherwise it is a no-op.
func Debug(format string, a ...any) {
	if !debugEnabled {
		return
	}
	debugPrinter(format, a...)
	fileLog.Debug().Msg(flatten(format, a...))
}

// Init enables or disables debug output.
func Init(enableDebug bool) {
	debugEnabled = enableDebug
}

// InitFile opens the rotating log file. Console logging keeps working when the
// directory cannot be created; the error is returned for the caller to report.
func InitFile(opts FileOptions) error {
	if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, FileName),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}
	SetFileWriter(lj)
	fileWriter = lj
	return nil
}

// SetFileWriter mirrors log messages as JSON lines into w.
func SetFileWriter(w io.Writer) {
	level := zerolog.InfoLevel
	if debugEnabled {
		level = zerolog.DebugLevel
	}
	fileLog = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Close releases the log file, if one was opened.
func Close() {
	if fileWriter != nil {
		_ = fileWriter.Close()
		fileWriter = nil
	}
	fileLog = zerolog.Nop()
}

// flatten renders a console message for the file log, dropping the level
// prefix and the trailing newline.
func flatten(format string, a ...any) string {
	msg := strings.TrimSpace(fmt.Sprintf(format, a...))
	if strings.HasPrefix(msg, "[") {
		if i := strings.Index(msg, "] "); i > 0 {
			msg = msg[i+2:]
		}
	}
	return msg
}
