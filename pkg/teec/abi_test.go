// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package teec_test

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/go-optee/pkg/teec"
)

func TestOperationImage(t *testing.T) {
	ctx := teec.NewContext(nil, discard())

	shm, err := ctx.RegisterSharedMemory(make([]byte, 64), teec.MemInput|teec.MemOutput)
	require.NoError(t, err)

	buf := make([]byte, 32)

	tmp, err := teec.NewParamTmpRef(buf, teec.ParamTypeMemrefTempOutput)
	require.NoError(t, err)

	partial, err := teec.NewParamMemrefPartial(shm, 16, 8, teec.ParamTypeMemrefPartialInout)
	require.NoError(t, err)

	op := teec.NewOperation(newValue(t, 7, 9, teec.ParamTypeValueInput), tmp, nil, partial)

	b, err := op.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, 112)

	assert.Equal(t, uint32(0xf061), binary.NativeEndian.Uint32(b[4:]))
	assert.Equal(t, uint32(7), binary.NativeEndian.Uint32(b[8:]))
	assert.Equal(t, uint32(9), binary.NativeEndian.Uint32(b[12:]))

	img, err := teec.ParseImage(b)
	require.NoError(t, err)

	want := &teec.Image{
		Types: op.ParamTypes(),
		Slots: [4]teec.ImageSlot{
			{Type: teec.ParamTypeValueInput, A: 7, B: 9},
			{Type: teec.ParamTypeMemrefTempOutput, Addr: img.Slots[1].Addr, Size: 32},
			{Type: teec.ParamTypeNone},
			{Type: teec.ParamTypeMemrefPartialInout, Addr: shm.ID(), Size: 8, Offset: 16},
		},
	}

	if diff := cmp.Diff(want, img); diff != "" {
		t.Errorf("unexpected image (-want +got):\n%s", diff)
	}

	assert.NotZero(t, img.Slots[1].Addr)

	_, err = teec.ParseImage(b[:100])
	require.ErrorIs(t, err, teec.NewError(teec.ResultBadFormat, teec.OriginAPI))
}
