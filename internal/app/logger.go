package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}

// LogFile returns the session log path inside logDir.
func LogFile(logDir, programID string) string {
	return filepath.Join(logDir, programID+".log")
}

// attachLogFile tees the structured log into <log_dir>/<program>.log. The
// console writer keeps receiving everything it did before.
func (a *App) attachLogFile(logDir string) (string, error) {
	path := LogFile(logDir, a.config.ProgramID)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	a.logFile = f
	a.logger = newLogger(a.config.LogLevel, a.config.LogFormat, io.MultiWriter(a.outW, f))
	return path, nil
}
