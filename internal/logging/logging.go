// Package logging wires zerolog output for the persistence engine:
// console, a per-session log file, and an optional Graylog GELF sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir, appName string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", appName, sessionStart.Format("20060102_150405")),
	)
}

// Manager owns the configured logger and its closable sinks.
type Manager struct {
	logger  zerolog.Logger
	logFile *os.File
}

// Options selects sinks and level for Setup.
type Options struct {
	Level          string
	LogsDir        string
	AppName        string
	GraylogEnabled bool
	GraylogAddress string
}

// NewManager returns a manager that logs to stderr until Setup runs.
func NewManager() *Manager {
	return &Manager{logger: zerolog.New(os.Stderr).With().Timestamp().Logger()}
}

// Setup initializes console, file and optional GELF output. A failed
// file or Graylog sink degrades to the remaining writers rather than
// failing startup.
func (m *Manager) Setup(opts Options) error {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}}

	if opts.LogsDir != "" {
		if mkErr := os.MkdirAll(opts.LogsDir, 0o755); mkErr == nil {
			path := LogFilePath(opts.LogsDir, opts.AppName, time.Now())
			if f, openErr := os.Create(path); openErr == nil {
				m.logFile = f
				writers = append(writers, f)
			}
		}
	}

	if opts.GraylogEnabled {
		gw, gelfErr := gelf.NewWriter(opts.GraylogAddress)
		if gelfErr != nil {
			return fmt.Errorf("connecting graylog writer: %w", gelfErr)
		}
		writers = append(writers, gw)
	}

	m.logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	m.logger.Info().Str("level", level.String()).Msg("Logging initialized")
	return nil
}

// Logger returns the configured logger.
func (m *Manager) Logger() zerolog.Logger {
	return m.logger
}

// Close releases the log file, if any.
func (m *Manager) Close() error {
	if m.logFile != nil {
		return m.logFile.Close()
	}
	return nil
}
