// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package grpclog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/siderolabs/go-optee/internal/grpclog"
	"github.com/siderolabs/go-optee/internal/util"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer

	l := grpclog.New(util.NewLogger(&buf, slog.LevelDebug), 2)

	l.Infof("connecting to %s", "bufnet")
	l.Warningln("slow", "peer")
	l.Error("failed")

	out := buf.String()
	assert.Contains(t, out, `level=DEBUG msg="connecting to bufnet"`)
	assert.Contains(t, out, `level=WARN msg="slow peer"`)
	assert.Contains(t, out, "level=ERROR msg=failed")

	assert.False(t, l.V(1))
	assert.True(t, grpclog.New(util.NewLogger(&buf, util.LogLevelTrace), 2).V(2))
	assert.False(t, grpclog.New(util.NewLogger(&buf, util.LogLevelTrace), 2).V(3))
}
