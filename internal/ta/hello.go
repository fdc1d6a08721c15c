// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package ta

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/siderolabs/go-optee/pkg/utee"
)

// HelloUUID identifies the hello application.
var HelloUUID = uuid.MustParse("8aaaf200-2450-11e4-abe2-0002a5d5c51b")

// Hello commands. Both take the value to change as a ValueInout in slot 0.
const (
	HelloCmdIncValue uint32 = 0
	HelloCmdDecValue uint32 = 1
)

// Hello is a single instance application counting values up and down.
type Hello struct {
	logger   *slog.Logger
	sessions atomic.Int32
}

// NewHello constructs the hello application.
func NewHello(logger *slog.Logger) *Hello {
	return &Hello{logger: logger}
}

// Header implements utee.TrustedApplication.
func (h *Hello) Header() utee.Header {
	return utee.Header{
		UUID:        HelloUUID,
		Flags:       utee.FlagSingleInstance | utee.FlagMultiSession,
		StackSize:   2 * 1024,
		DataSize:    32 * 1024,
		Version:     "0.2.0",
		Description: "increments and decrements a value",
	}
}

// Create implements utee.TrustedApplication.
func (h *Hello) Create(context.Context) error {
	h.logger.Debug("instance created")

	return nil
}

// Destroy implements utee.TrustedApplication.
func (h *Hello) Destroy(context.Context) {
	h.logger.Debug("instance destroyed")
}

// OpenSession implements utee.TrustedApplication. With a ValueOutput in slot
// 0 it reports how many sessions the instance serves, this one included.
func (h *Hello) OpenSession(_ context.Context, params utee.Parameters) (utee.SessionHandler, error) {
	if params.Types() != 0 {
		if err := params.Expect(utee.ParamTypeValueOutput, utee.ParamTypeNone, utee.ParamTypeNone, utee.ParamTypeNone); err != nil {
			return nil, err
		}
	}

	n := h.sessions.Add(1)

	if params.Types() != 0 {
		v, err := params.Slot(0).AsValue()
		if err != nil {
			h.sessions.Add(-1)

			return nil, err
		}

		v.SetA(uint32(n))
	}

	s := &helloSession{Router: utee.NewRouter(h.logger), app: h}

	inout := utee.NewParamTypes(utee.ParamTypeValueInout, utee.ParamTypeNone, utee.ParamTypeNone, utee.ParamTypeNone)
	s.RegisterCommandTypes(HelloCmdIncValue, inout, s.add(1))
	s.RegisterCommandTypes(HelloCmdDecValue, inout, s.add(-1))

	h.logger.Debug("session opened", "sessions", n)

	return s, nil
}

type helloSession struct {
	*utee.Router

	app *Hello
}

func (s *helloSession) add(delta int32) utee.CommandHandler {
	return func(_ context.Context, params utee.Parameters) error {
		v, err := params.Slot(0).AsValue()
		if err != nil {
			return err
		}

		s.app.logger.Debug("got value", "value", v.A())
		v.SetA(uint32(int32(v.A()) + delta))

		return nil
	}
}

// CloseSession implements utee.SessionHandler.
func (s *helloSession) CloseSession(context.Context) {
	s.app.sessions.Add(-1)
	s.app.logger.Debug("session closed")
}
