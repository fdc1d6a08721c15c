// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package utee_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/siderolabs/go-optee/pkg/param"
	"github.com/siderolabs/go-optee/pkg/utee"
)

var allTypes = []utee.ParamType{
	utee.ParamTypeNone,
	utee.ParamTypeValueInput,
	utee.ParamTypeValueOutput,
	utee.ParamTypeValueInout,
	utee.ParamTypeMemrefInput,
	utee.ParamTypeMemrefOutput,
	utee.ParamTypeMemrefInout,
}

func TestParamTypesRoundTrip(t *testing.T) {
	for _, p0 := range allTypes {
		for _, p1 := range allTypes {
			for _, p2 := range allTypes {
				for _, p3 := range allTypes {
					types := utee.NewParamTypes(p0, p1, p2, p3)

					assert.Equal(t, [param.Slots]utee.ParamType{p0, p1, p2, p3}, types.Array())
				}
			}
		}
	}

	assert.Equal(t, uint32(0x61), utee.NewParamTypes(utee.ParamTypeValueInput, utee.ParamTypeMemrefOutput, utee.ParamTypeNone, utee.ParamTypeNone).Uint32())
}

func TestParamTypesClientOnlyNibbles(t *testing.T) {
	// registered reference types of the client side mean nothing here
	types := utee.ParamTypes(0xfedc)

	p0, p1, p2, p3 := types.Flags()
	for _, p := range []utee.ParamType{p0, p1, p2, p3} {
		assert.Equal(t, utee.ParamTypeNone, p)
	}

	assert.Equal(t, []int{0, 1, 2, 3}, types.Unrecognized())
	assert.Equal(t, "0xfedc (None, None, None, None)", types.String())

	// bits above the four nibbles are ignored
	assert.Equal(t, utee.ParamTypeValueInout, utee.ParamTypes(0xabcd0003).Array()[0])
	assert.Empty(t, utee.ParamTypes(0xabcd0003).Unrecognized())
}

func TestParamTypeDirection(t *testing.T) {
	assert.Equal(t, param.DirInput, utee.ParamTypeMemrefInput.Direction())
	assert.Equal(t, param.DirOutput, utee.ParamTypeValueOutput.Direction())
	assert.Equal(t, param.DirInout, utee.ParamTypeMemrefInout.Direction())
	assert.Equal(t, param.DirNone, utee.ParamTypeNone.Direction())
	assert.Equal(t, param.ClassTempMemref, utee.ParamTypeMemrefOutput.Class())
	assert.Equal(t, "Unknown", utee.ParamType(0xc).String())
	assert.Equal(t, utee.ParamTypeNone, utee.ParamTypeFromUint32(0xc))
}
