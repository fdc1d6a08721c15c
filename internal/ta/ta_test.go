// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package ta_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/go-optee/internal/ta"
	"github.com/siderolabs/go-optee/pkg/utee"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHelloWraps(t *testing.T) {
	hello := ta.NewHello(discard())

	s, err := hello.OpenSession(context.Background(), utee.Parameters{})
	require.NoError(t, err)

	value, err := utee.FromValues(0, 0, utee.ParamTypeValueInout)
	require.NoError(t, err)

	types, raws := utee.Gather(value, nil, nil, nil)

	require.NoError(t, utee.Dispatch(context.Background(), s, ta.HelloCmdDecValue, types.Uint32(), &raws))

	v, err := utee.ParametersFromRaw(&raws, types.Uint32()).Slot(0).AsValue()
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), v.A())

	s.CloseSession(context.Background())
}

func TestReverseInPlace(t *testing.T) {
	reverse := ta.NewReverse(discard())

	s, err := reverse.OpenSession(context.Background(), utee.Parameters{})
	require.NoError(t, err)

	src := []byte("stressed")
	dst := make([]byte, len(src))

	in, err := utee.FromBytes(src, utee.ParamTypeMemrefInput)
	require.NoError(t, err)

	out, err := utee.FromBytes(dst, utee.ParamTypeMemrefOutput)
	require.NoError(t, err)

	types, raws := utee.Gather(in, out, nil, nil)
	require.NoError(t, utee.Dispatch(context.Background(), s, ta.ReverseCmdReverse, types.Uint32(), &raws))
	assert.Equal(t, "desserts", string(dst))

	// the types word must match exactly
	err = utee.Dispatch(context.Background(), s, ta.ReverseCmdReverse, types.Uint32()|0x100, &raws)
	require.ErrorIs(t, err, utee.ErrBadParameters)
}

type collector []utee.TrustedApplication

func (c *collector) Install(app utee.TrustedApplication) error {
	*c = append(*c, app)

	return nil
}

func TestInstallAll(t *testing.T) {
	var apps collector

	require.NoError(t, ta.InstallAll(&apps, discard()))
	require.Len(t, apps, 2)
	assert.Equal(t, ta.HelloUUID, apps[0].Header().UUID)
	assert.Equal(t, ta.ReverseUUID, apps[1].Header().UUID)
}
