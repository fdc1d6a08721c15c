// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package loopback_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siderolabs/go-optee/pkg/teec"
	"github.com/siderolabs/go-optee/pkg/utee"
)

// lifecycle counts instance creations and destructions.
type lifecycle struct {
	id        uuid.UUID
	flags     utee.Flags
	created   int
	destroyed int
}

func (l *lifecycle) Header() utee.Header {
	return utee.Header{UUID: l.id, Flags: l.flags}
}

func (l *lifecycle) Create(context.Context) error {
	l.created++

	return nil
}

func (l *lifecycle) Destroy(context.Context) {
	l.destroyed++
}

func (l *lifecycle) OpenSession(context.Context, utee.Parameters) (utee.SessionHandler, error) {
	return nopSession{}, nil
}

type nopSession struct{}

func (nopSession) InvokeCommand(context.Context, uint32, utee.Parameters) error {
	return nil
}

func (nopSession) CloseSession(context.Context) {}

func TestInstanceLifecycle(t *testing.T) {
	for _, test := range []struct {
		name  string
		flags utee.Flags

		createdAfterTwo int
		busy            bool
		destroyedAtEnd  int
	}{
		{
			name:            "multi instance",
			createdAfterTwo: 2,
			destroyedAtEnd:  2,
		},
		{
			name:            "single instance",
			flags:           utee.FlagSingleInstance,
			createdAfterTwo: 1,
			busy:            true,
			destroyedAtEnd:  1,
		},
		{
			name:            "multi session",
			flags:           utee.FlagSingleInstance | utee.FlagMultiSession,
			createdAfterTwo: 1,
			destroyedAtEnd:  1,
		},
		{
			name:            "keep alive",
			flags:           utee.FlagSingleInstance | utee.FlagMultiSession | utee.FlagInstanceKeepAlive,
			createdAfterTwo: 1,
			destroyedAtEnd:  0,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			app := &lifecycle{id: uuid.New(), flags: test.flags}
			ctx, tee := newContext(t, app)
			dest := teec.UUIDFrom(app.id)

			first := open(t, ctx, app.id, nil)

			second, err := ctx.OpenSession(context.Background(), dest, teec.LoginPublic, nil)
			if test.busy {
				require.ErrorIs(t, err, teec.NewError(teec.ResultBusy, teec.OriginTEE))
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, test.createdAfterTwo, app.created)

			require.NoError(t, first.Close(context.Background()))

			if second != nil {
				require.NoError(t, second.Close(context.Background()))
			}

			assert.Equal(t, test.destroyedAtEnd, app.destroyed)

			require.NoError(t, tee.Close(context.Background()))
			assert.Equal(t, app.created, app.destroyed)
		})
	}
}
