// Package logging builds the slog loggers shared by the binaries.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to w and the LevelVar that controls it.
func New(level string, w io.Writer) (*slog.Logger, *slog.LevelVar) {
	lv := new(slog.LevelVar)
	lv.Set(ParseLevel(level))
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv}))
	return logger, lv
}

// Toggle flips between debug and info and returns the new level.
func Toggle(lv *slog.LevelVar) slog.Level {
	if lv.Level() <= slog.LevelDebug {
		lv.Set(slog.LevelInfo)
	} else {
		lv.Set(slog.LevelDebug)
	}
	return lv.Level()
}
