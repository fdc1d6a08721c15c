// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package utee_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/go-optee/pkg/param"
	"github.com/siderolabs/go-optee/pkg/utee"
)

func TestParametersInPlace(t *testing.T) {
	buf := []byte("abcdef")

	mem, err := param.NewBuffer(buf)
	require.NoError(t, err)

	raws := [param.Slots]param.Raw{
		param.RawValue(7, 9),
		param.RawMemref(mem),
	}

	types := utee.NewParamTypes(utee.ParamTypeValueInout, utee.ParamTypeMemrefInout, utee.ParamTypeNone, utee.ParamTypeNone)
	params := utee.ParametersFromRaw(&raws, types.Uint32())

	v, err := params.Slot(0).AsValue()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v.A())
	assert.Equal(t, uint32(9), v.B())

	v.SetA(70)
	v.SetB(90)

	m, err := params.Slot(1).AsMemref()
	require.NoError(t, err)
	require.Len(t, m.Buffer(), 6)
	assert.Same(t, &buf[0], &m.Buffer()[0])

	m.Buffer()[0] = 'A'
	m.SetUpdatedSize(3)

	// a fresh decode of the same slots observes every write
	params = utee.ParametersFromRaw(&raws, types.Uint32())

	v, err = params.Slot(0).AsValue()
	require.NoError(t, err)
	assert.Equal(t, uint32(70), v.A())
	assert.Equal(t, uint32(90), v.B())

	m, err = params.Slot(1).AsMemref()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), m.Size())
	assert.Equal(t, "Abc", string(m.Buffer()))
	assert.Equal(t, "Abcdef", string(buf))
}

func TestParameterNarrowing(t *testing.T) {
	raws := [param.Slots]param.Raw{param.RawValue(1, 2)}
	params := utee.ParametersFromRaw(&raws, utee.NewParamTypes(utee.ParamTypeValueInput, utee.ParamTypeMemrefOutput, utee.ParamTypeNone, utee.ParamTypeNone).Uint32())

	_, err := params.Slot(0).AsMemref()
	require.ErrorIs(t, err, utee.ErrBadParameters)

	_, err = params.Slot(1).AsValue()
	require.ErrorIs(t, err, utee.ErrBadParameters)

	for _, i := range []int{2, 3, -1, 4} {
		_, err = params.Slot(i).AsValue()
		require.ErrorIs(t, err, utee.ErrBadParameters)

		_, err = params.Slot(i).AsMemref()
		require.ErrorIs(t, err, param.ErrBadParameters)
	}
}

func TestParametersMalformedTypes(t *testing.T) {
	// slot 0 claims a registered reference, which this side cannot interpret
	raws := [param.Slots]param.Raw{param.RawValue(1, 2)}
	params := utee.ParametersFromRaw(&raws, 0xd)

	assert.Equal(t, utee.ParamTypeNone, params.Slot(0).Type())

	_, err := params.Slot(0).AsValue()
	require.ErrorIs(t, err, utee.ErrBadParameters)

	require.ErrorIs(t, params.Expect(utee.ParamTypeNone, utee.ParamTypeNone, utee.ParamTypeNone, utee.ParamTypeNone), utee.ErrBadParameters)
}

func TestParametersExpect(t *testing.T) {
	var raws [param.Slots]param.Raw

	params := utee.ParametersFromRaw(&raws, 0x13)

	require.NoError(t, params.Expect(utee.ParamTypeValueInout, utee.ParamTypeValueInput, utee.ParamTypeNone, utee.ParamTypeNone))

	err := params.Expect(utee.ParamTypeValueInout, utee.ParamTypeNone, utee.ParamTypeNone, utee.ParamTypeNone)
	require.ErrorIs(t, err, utee.ErrBadParameters)
	assert.Contains(t, err.Error(), "0x0013 (ValueInout, ValueInput, None, None)")
}

func TestOwnedParameter(t *testing.T) {
	buf := make([]byte, 8)

	out, err := utee.FromBytes(buf, utee.ParamTypeMemrefOutput)
	require.NoError(t, err)

	m, err := out.AsMemref()
	require.NoError(t, err)
	copy(m.Buffer(), "secret")
	assert.Equal(t, "secret\x00\x00", string(buf))

	_, err = out.AsValue()
	require.ErrorIs(t, err, utee.ErrBadParameters)

	in, err := utee.FromValues(7, 9, utee.ParamTypeValueInput)
	require.NoError(t, err)

	types, raws := utee.Gather(in, nil, out, nil)
	assert.Equal(t, uint32(0x601), types.Uint32())
	assert.True(t, raws[1].IsZero())
	assert.True(t, raws[3].IsZero())

	params := utee.ParametersFromRaw(&raws, types.Uint32())

	v, err := params.Slot(0).AsValue()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v.A())
	assert.Equal(t, uint32(9), v.B())

	m, err = params.Slot(2).AsMemref()
	require.NoError(t, err)
	assert.Same(t, &buf[0], &m.Buffer()[0])

	empty, err := utee.FromBytes(nil, utee.ParamTypeMemrefInput)
	require.NoError(t, err)

	m, err = empty.AsMemref()
	require.NoError(t, err)
	assert.Empty(t, m.Buffer())
	assert.Equal(t, uint32(0), m.Size())

	_, err = utee.FromBytes([]byte{41, 0, 0, 0}, utee.ParamTypeValueInout)
	require.ErrorIs(t, err, utee.ErrBadParameters)

	_, err = utee.FromValues(1, 2, utee.ParamTypeMemrefInput)
	require.ErrorIs(t, err, utee.ErrBadParameters)

	_, err = utee.FromValues(1, 2, utee.ParamTypeNone)
	require.ErrorIs(t, err, utee.ErrBadParameters)
}
