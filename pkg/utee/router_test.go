// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package utee_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/go-optee/pkg/param"
	"github.com/siderolabs/go-optee/pkg/utee"
)

func newRouter() *utee.Router {
	r := utee.NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)))

	r.RegisterCommandTypes(1, utee.NewParamTypes(utee.ParamTypeValueInout, utee.ParamTypeNone, utee.ParamTypeNone, utee.ParamTypeNone),
		func(_ context.Context, params utee.Parameters) error {
			v, err := params.Slot(0).AsValue()
			if err != nil {
				return err
			}

			v.SetA(v.A() * 2)

			return nil
		})

	r.RegisterCommand(2, func(_ context.Context, params utee.Parameters) error {
		m, err := params.Slot(0).AsMemref()
		if err != nil {
			return err
		}

		m.SetUpdatedSize(m.Size() + 1)

		return utee.ErrShortBuffer
	})

	r.RegisterCommand(3, func(context.Context, utee.Parameters) error {
		return errors.New("broken")
	})

	return r
}

func TestRouterDispatch(t *testing.T) {
	r := newRouter()

	raws := [param.Slots]param.Raw{param.RawValue(21, 0)}
	types := utee.NewParamTypes(utee.ParamTypeValueInout, utee.ParamTypeNone, utee.ParamTypeNone, utee.ParamTypeNone)

	require.NoError(t, utee.Dispatch(context.Background(), r, 1, types.Uint32(), &raws))

	v, err := utee.ParametersFromRaw(&raws, types.Uint32()).Slot(0).AsValue()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), v.A())

	err = utee.Dispatch(context.Background(), r, 1, 0x1, &raws)
	require.ErrorIs(t, err, utee.ErrBadParameters)

	err = utee.Dispatch(context.Background(), r, 99, 0, &raws)
	require.ErrorIs(t, err, utee.ErrNotSupported)

	err = utee.Dispatch(context.Background(), r, 3, 0, &raws)
	require.ErrorIs(t, err, utee.NewError(utee.ErrorKindGeneric))
}

func TestRouterShortBuffer(t *testing.T) {
	r := newRouter()

	out, err := utee.FromBytes(make([]byte, 4), utee.ParamTypeMemrefOutput)
	require.NoError(t, err)

	types, raws := utee.Gather(out, nil, nil, nil)

	err = utee.Dispatch(context.Background(), r, 2, types.Uint32(), &raws)
	require.ErrorIs(t, err, utee.ErrShortBuffer)

	// the size written before failing is kept
	m, err := utee.ParametersFromRaw(&raws, types.Uint32()).Slot(0).AsMemref()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), m.Size())
	assert.Len(t, m.Buffer(), 4)
}

func TestErrorKinds(t *testing.T) {
	err := utee.NewError(utee.ErrorKindOverflow)
	assert.Equal(t, uint32(0xFFFF300F), err.Raw())
	assert.Equal(t, "overflow (0xffff300f)", err.Error())

	assert.ErrorIs(t, utee.ErrTargetDead, param.ErrSizeOverflow)
	assert.Equal(t, utee.ErrorKindTargetDead, utee.AsError(param.ErrSizeOverflow).Kind)
	assert.Equal(t, "unknown error 0x00000001", utee.ErrorKind(1).String())
}
