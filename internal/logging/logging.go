// Package logging настраивает журнал: slog в файл (только дописываем) и
// человекочитаемые строки статуса в stdout.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps debug|info|warn|error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// Setup opens the log file in append mode and installs a text handler as the default slog
// logger. The returned closer must be called on exit.
func Setup(path, level string) (io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		w, closer = f, f
	}

	slog.SetDefault(New(w, lvl))
	return closer, nil
}

// New builds the text logger used by Setup; tests pass a buffer.
func New(w io.Writer, lvl slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// Status печатает строку для человека в stdout.
func Status(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}
