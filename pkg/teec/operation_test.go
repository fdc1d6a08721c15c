// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package teec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/go-optee/pkg/param"
	"github.com/siderolabs/go-optee/pkg/teec"
)

func newValue(t *testing.T, a, b uint32, typ teec.ParamType) teec.ParamValue {
	t.Helper()

	v, err := teec.NewParamValue(a, b, typ)
	require.NoError(t, err)

	return v
}

func TestOperationValue(t *testing.T) {
	op := teec.NewOperation(newValue(t, 7, 9, teec.ParamTypeValueInout), nil, teec.ParamNone{}, nil)

	assert.Equal(t, uint32(0x3), op.ParamTypes().Uint32())
	assert.False(t, op.Started())

	v, err := op.Value(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v.A())
	assert.Equal(t, uint32(9), v.B())
	assert.Equal(t, teec.ParamTypeValueInout, v.Type())

	// outputs are written through the decoded slot
	view, err := op.Params()[0].AsValue()
	require.NoError(t, err)
	view.SetA(8)

	v, err = op.Value(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), v.A())

	_, err = op.Value(1)
	require.ErrorIs(t, err, teec.ErrBadParameters)
	require.ErrorIs(t, err, param.ErrBadParameters)

	_, err = op.Value(4)
	require.ErrorIs(t, err, teec.ErrBadParameters)
}

func TestOperationTmpRefAliases(t *testing.T) {
	buf := []byte("hello")

	ref, err := teec.NewParamTmpRef(buf, teec.ParamTypeMemrefTempInout)
	require.NoError(t, err)

	op := teec.NewOperation(nil, ref, nil, nil)

	got, err := op.Buffer(1)
	require.NoError(t, err)
	require.Len(t, got, len(buf))
	assert.Same(t, &buf[0], &got[0])

	got[0] = 'j'
	assert.Equal(t, "jello", string(buf))

	_, err = op.Buffer(0)
	require.ErrorIs(t, err, teec.ErrBadParameters)
}

func TestOperationShortBuffer(t *testing.T) {
	buf := make([]byte, 4)

	ref, err := teec.NewParamTmpRef(buf, teec.ParamTypeMemrefTempOutput)
	require.NoError(t, err)

	op := teec.NewOperation(ref, nil, nil, nil)

	m, err := op.Params()[0].AsMemref()
	require.NoError(t, err)
	require.NoError(t, m.SetUpdatedSize(16))

	size, err := op.Size(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), size)

	// the view never reaches past the memory supplied
	got, err := op.Buffer(0)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestParamMemrefPartial(t *testing.T) {
	ctx := teec.NewContext(nil, discard())

	shm, err := ctx.RegisterSharedMemory([]byte("0123456789"), teec.MemInput)
	require.NoError(t, err)

	ref, err := teec.NewParamMemrefPartial(shm, 2, 3, teec.ParamTypeMemrefPartialInput)
	require.NoError(t, err)

	op := teec.NewOperation(nil, nil, ref, nil)

	got, err := op.Buffer(2)
	require.NoError(t, err)
	assert.Equal(t, "234", string(got))

	reg, err := op.Params()[2].AsRegistered()
	require.NoError(t, err)
	assert.Equal(t, shm.ID(), reg.Parent().ID())
	assert.Equal(t, uint64(2), reg.Offset())

	for _, test := range []struct {
		name   string
		offset uint64
		size   uint64
		typ    teec.ParamType
	}{
		{"outside", 8, 3, teec.ParamTypeMemrefPartialInput},
		{"offset past end", 11, 0, teec.ParamTypeMemrefPartialInput},
		{"not partial", 0, 1, teec.ParamTypeMemrefTempInput},
		{"output on input block", 0, 1, teec.ParamTypeMemrefPartialOutput},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := teec.NewParamMemrefPartial(shm, test.offset, test.size, test.typ)
			require.ErrorIs(t, err, teec.ErrBadParameters)
		})
	}

	whole, err := teec.NewParamMemrefWhole(shm)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), whole.Size())

	require.NoError(t, ctx.ReleaseSharedMemory(shm))

	_, err = teec.NewParamMemrefWhole(shm)
	require.ErrorIs(t, err, teec.ErrBadParameters)
}

func TestConstructorsCheckClass(t *testing.T) {
	_, err := teec.NewParamValue(1, 2, teec.ParamTypeNone)
	require.ErrorIs(t, err, teec.ErrBadParameters)

	_, err = teec.NewParamValue(1, 2, teec.ParamTypeMemrefTempInput)
	require.ErrorIs(t, err, teec.ErrBadParameters)

	_, err = teec.NewParamTmpRef([]byte{41, 0, 0, 0}, teec.ParamTypeValueInout)
	require.ErrorIs(t, err, teec.ErrBadParameters)

	_, err = teec.NewParamTmpRef(make([]byte, 4), teec.ParamTypeMemrefPartialInput)
	require.ErrorIs(t, err, teec.ErrBadParameters)
}

func TestOperationUnusedSlotsAreZero(t *testing.T) {
	op := teec.NewOperation(teec.ParamNone{}, nil, nil, nil)

	assert.Equal(t, uint32(0), op.ParamTypes().Uint32())

	b, err := op.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, make([]byte, teec.OperationSize), b)
}
