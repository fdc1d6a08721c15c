// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package util_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/go-optee/internal/util"
)

func TestParseLevel(t *testing.T) {
	for _, test := range []struct {
		in   string
		want slog.Level
	}{
		{"trace", util.LogLevelTrace},
		{"TRACE", util.LogLevelTrace},
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	} {
		t.Run(test.in, func(t *testing.T) {
			level, err := util.ParseLevel(test.in)
			require.NoError(t, err)
			assert.Equal(t, test.want, level)
		})
	}

	_, err := util.ParseLevel("loud")
	require.Error(t, err)
}

func TestTraceLog(t *testing.T) {
	var buf bytes.Buffer

	util.TraceLog(util.NewLogger(&buf, slog.LevelDebug), "hidden")
	assert.Empty(t, buf.String())

	util.TraceLog(util.NewLogger(&buf, util.LogLevelTrace), "shown", "k", 1)
	assert.Contains(t, buf.String(), "level=TRACE msg=shown k=1")
}
