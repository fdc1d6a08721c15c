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

func TestParamTypesPacking(t *testing.T) {
	types := teec.NewParamTypes(teec.ParamTypeValueInput, teec.ParamTypeMemrefTempOutput, teec.ParamTypeNone, teec.ParamTypeNone)
	assert.Equal(t, uint32(0x61), types.Uint32())

	p0, p1, p2, p3 := teec.ParamTypes(0x61).Flags()
	assert.Equal(t, teec.ParamTypeValueInput, p0)
	assert.Equal(t, teec.ParamTypeMemrefTempOutput, p1)
	assert.Equal(t, teec.ParamTypeNone, p2)
	assert.Equal(t, teec.ParamTypeNone, p3)

	assert.Equal(t, "0x0061 (ValueInput, MemrefTempOutput, None, None)", types.String())
}

func TestParamTypesFromArray(t *testing.T) {
	types := teec.ParamTypesFromArray([param.Slots]uint32{0xd, 0x3, 0xc, 0x7})
	assert.Equal(t, uint32(0x7c3d), types.Uint32())
	assert.Equal(t, [param.Slots]teec.ParamType{
		teec.ParamTypeMemrefPartialInput,
		teec.ParamTypeValueInout,
		teec.ParamTypeMemrefWhole,
		teec.ParamTypeMemrefTempInout,
	}, types.Array())
	assert.Empty(t, types.Unrecognized())
}

func TestParamTypesUnrecognized(t *testing.T) {
	// 0x4 and 0x8 are reserved nibbles.
	types := teec.ParamTypes(0x8041)

	assert.Equal(t, [param.Slots]teec.ParamType{
		teec.ParamTypeValueInput,
		teec.ParamTypeNone,
		teec.ParamTypeNone,
		teec.ParamTypeNone,
	}, types.Array())
	assert.Equal(t, []int{1, 3}, types.Unrecognized())

	p0, p1, p2, p3 := types.Flags()
	assert.NotEqual(t, types, teec.NewParamTypes(p0, p1, p2, p3))
}

func TestParamTypeClassAndDirection(t *testing.T) {
	for _, test := range []struct {
		typ       teec.ParamType
		class     param.Class
		direction param.Direction
	}{
		{teec.ParamTypeNone, param.ClassNone, param.DirNone},
		{teec.ParamTypeValueOutput, param.ClassValue, param.DirOutput},
		{teec.ParamTypeMemrefTempInout, param.ClassTempMemref, param.DirInout},
		{teec.ParamTypeMemrefWhole, param.ClassRegisteredMemref, param.DirInout},
		{teec.ParamTypeMemrefPartialInput, param.ClassRegisteredMemref, param.DirInput},
		{teec.ParamTypeMemrefPartialOutput, param.ClassRegisteredMemref, param.DirOutput},
	} {
		t.Run(test.typ.String(), func(t *testing.T) {
			assert.Equal(t, test.class, test.typ.Class())
			assert.Equal(t, test.direction, test.typ.Direction())
		})
	}
}

func TestParseParamType(t *testing.T) {
	typ, ok := teec.ParseParamType("MemrefPartialInout")
	require.True(t, ok)
	assert.Equal(t, teec.ParamTypeMemrefPartialInout, typ)

	_, ok = teec.ParseParamType("MemrefInput")
	assert.False(t, ok)

	assert.Equal(t, teec.ParamTypeNone, teec.ParamTypeFromUint32(0x4))
	assert.Equal(t, teec.ParamTypeNone, teec.ParamTypeFromUint32(0x15))
	assert.Equal(t, teec.ParamTypeMemrefWhole, teec.ParamTypeFromUint32(0xc))
}
