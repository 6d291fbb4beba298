// Package logging maps the five DARC log-level names onto slog.Level and
// sets up a stderr text handler. An ordered level selector needs more
// than log.Printf can express, so this reaches for slog while keeping a
// plain, framework-free posture.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LevelCritical has no stdlib slog equivalent; it is modeled as
// LevelError + 4, one step above ERROR with the same spacing of 4 that
// separates slog's other levels, as Python logging's CRITICAL=50 sits
// one step above ERROR=40.
const LevelCritical slog.Level = slog.LevelError + 4

// ParseLevel resolves one of DARC's five level names (case-insensitive)
// to a slog.Level. An unrecognized name is an error, not a silent
// fallback, since it is always supplied by the CLI's -l/--log-level flag.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARNING", "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "CRITICAL":
		return LevelCritical, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", name)
	}
}

// levelNames maps a slog.Level back to its display name, used by the
// text handler's ReplaceAttr so CRITICAL renders as "CRITICAL" rather
// than slog's default "ERROR+4".
var levelNames = map[slog.Level]string{
	slog.LevelDebug: "DEBUG",
	slog.LevelInfo:  "INFO",
	slog.LevelWarn:  "WARNING",
	slog.LevelError: "ERROR",
	LevelCritical:   "CRITICAL",
}

func replaceLevelAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	if name, ok := levelNames[level]; ok {
		a.Value = slog.StringValue(name)
	}
	return a
}

// New builds a slog.Logger writing text-formatted records to w at or
// above level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevelAttr,
	})
	return slog.New(handler)
}
