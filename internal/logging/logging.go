// Package logging configures the app's zerolog loggers. Interactive runs
// write JSON lines to a file because the TUI owns the terminal; one-shot
// CLI commands log human-readable output to stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLevel selects the log level: debug, info, warn, error, or off.
const EnvLevel = "CODETOYOU_LOG_LEVEL"

// FileName is the log file created under the app's state directory.
const FileName = "codetoyou.log"

// New returns a JSON logger writing to w at the level named by
// CODETOYOU_LOG_LEVEL (info when unset).
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(levelFromEnv()).With().Timestamp().Logger()
}

// Console returns a human-readable stderr logger for one-shot commands.
func Console() zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(cw).Level(levelFromEnv()).With().Timestamp().Logger()
}

// DefaultDir resolves the log directory: $XDG_STATE_HOME/codetoyou,
// falling back to ~/.local/state/codetoyou.
func DefaultDir() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "codetoyou"), nil
}

// OpenFile opens the append-only log file under dir, creating the
// directory if needed. The caller closes it on shutdown.
func OpenFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func levelFromEnv() zerolog.Level {
	switch strings.ToLower(os.Getenv(EnvLevel)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
