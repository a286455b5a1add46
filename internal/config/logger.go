package config

import (
	"io"
	"log/slog"
)

// InitLogger installs a text logger on w as the default slog logger.
func InitLogger(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
