// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// checkptr, enabled by the race detector, rejects the oversized slice header.

//go:build !race

package teec_test

import (
	"math"
	"strconv"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/go-optee/pkg/teec"
)

func TestParamTmpRefOverflow(t *testing.T) {
	if strconv.IntSize < 64 {
		t.Skip("slice lengths cannot exceed the size field on 32-bit platforms")
	}

	var b byte

	limit := uint64(math.MaxUint32)
	huge := unsafe.Slice(&b, limit+1)

	ref, err := teec.NewParamTmpRef(huge, teec.ParamTypeMemrefTempInput)
	require.ErrorIs(t, err, teec.ErrTargetDead)
	assert.Nil(t, ref)
}
