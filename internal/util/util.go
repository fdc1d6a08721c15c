// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package util packages various utilities.
package util

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// log/slog does not implement trace logging by default, but is flexible.
const (
	LogLevelTrace = slog.Level(-8)
)

// TraceLog sends trace-level logging to log/slog.Logger.
func TraceLog(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LogLevelTrace, msg, args...)
}

// ParseLevel parses a log level name, accepting "trace" next to the levels
// slog knows.
func ParseLevel(s string) (slog.Level, error) {
	if strings.ToUpper(s) == "TRACE" {
		return LogLevelTrace, nil
	}

	var level slog.Level

	err := level.UnmarshalText([]byte(s))

	return level, err
}

// NewLogger returns a text logger writing to w at level, naming the trace
// level TRACE.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l <= LogLevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}

			return a
		},
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
