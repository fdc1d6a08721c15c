// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package grpclog routes the internal logging of google.golang.org/grpc into
// log/slog.
package grpclog

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/grpc/grpclog"

	"github.com/siderolabs/go-optee/internal/util"
)

// Logger implements grpclog.LoggerV2 on a slog.Logger.
type Logger struct {
	logger    *slog.Logger
	verbosity int
}

var _ grpclog.LoggerV2 = (*Logger)(nil)

// New initializes the wrapper around slog.Logger. verbosity is grpc's
// verbosity level; V(l) holds for l up to it.
func New(logger *slog.Logger, verbosity int) *Logger {
	return &Logger{
		logger:    logger,
		verbosity: verbosity,
	}
}

// Install makes l the logger of the grpc library. It must be called before
// any other grpc function.
func Install(l *Logger) {
	grpclog.SetLoggerV2(l)
}

// Info logs informational messages. grpc is chatty at info level, so they
// go to debug.
func (l *Logger) Info(args ...any) {
	l.logger.Debug(fmt.Sprint(args...))
}

// Infoln logs informational messages.
func (l *Logger) Infoln(args ...any) {
	l.logger.Debug(sprintln(args...))
}

// Infof logs informational messages.
func (l *Logger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Warning logs warnings.
func (l *Logger) Warning(args ...any) {
	l.logger.Warn(fmt.Sprint(args...))
}

// Warningln logs warnings.
func (l *Logger) Warningln(args ...any) {
	l.logger.Warn(sprintln(args...))
}

// Warningf logs warnings.
func (l *Logger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

// Error logs errors.
func (l *Logger) Error(args ...any) {
	l.logger.Error(fmt.Sprint(args...))
}

// Errorln logs errors.
func (l *Logger) Errorln(args ...any) {
	l.logger.Error(sprintln(args...))
}

// Errorf logs errors.
func (l *Logger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

// Fatal logs an error and exits.
func (l *Logger) Fatal(args ...any) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}

// Fatalln logs an error and exits.
func (l *Logger) Fatalln(args ...any) {
	l.logger.Error(sprintln(args...))
	os.Exit(1)
}

// Fatalf logs an error and exits.
func (l *Logger) Fatalf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

// V reports whether verbosity level v is enabled. Verbose grpc output is
// logged at trace level.
func (l *Logger) V(v int) bool {
	return v <= l.verbosity && l.logger.Enabled(context.Background(), util.LogLevelTrace)
}

func sprintln(args ...any) string {
	s := fmt.Sprintln(args...)

	return s[:len(s)-1]
}
