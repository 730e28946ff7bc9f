// Package logger sends structured logs to a file, keeping the terminal free
// for the TUI.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init installs a slog text logger writing to path as the default logger.
// The returned closer releases the file.
func Init(path, level string) (io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: lvl})))
	return file, nil
}

func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}
