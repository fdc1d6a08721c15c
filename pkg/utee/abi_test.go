// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package utee_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/go-optee/pkg/param"
	"github.com/siderolabs/go-optee/pkg/utee"
)

func TestParametersImage(t *testing.T) {
	buf := make([]byte, 24)

	out, err := utee.FromBytes(buf, utee.ParamTypeMemrefOutput)
	require.NoError(t, err)

	value, err := utee.FromValues(7, 9, utee.ParamTypeValueOutput)
	require.NoError(t, err)

	types, raws := utee.Gather(nil, value, out, nil)

	b, err := utee.ParametersFromRaw(&raws, types.Uint32()).MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, 64)
	assert.Equal(t, make([]byte, 16), b[0:16])
	assert.Equal(t, make([]byte, 16), b[48:64])

	slots, err := utee.ParseImage(b, types)
	require.NoError(t, err)

	want := [param.Slots]utee.ImageSlot{
		{Type: utee.ParamTypeNone},
		{Type: utee.ParamTypeValueOutput, A: 7, B: 9},
		{Type: utee.ParamTypeMemrefOutput, Addr: slots[2].Addr, Size: 24},
		{Type: utee.ParamTypeNone},
	}

	if diff := cmp.Diff(want, slots); diff != "" {
		t.Errorf("unexpected image (-want +got):\n%s", diff)
	}

	assert.NotZero(t, slots[2].Addr)
	assert.Equal(t, "ValueOutput a=7 b=9", slots[1].String())

	_, err = utee.ParseImage(b[:63], types)
	require.ErrorIs(t, err, utee.NewError(utee.ErrorKindBadFormat))
}
