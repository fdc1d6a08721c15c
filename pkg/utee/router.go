// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package utee

import (
	"context"
	"errors"
	"log/slog"

	"github.com/siderolabs/go-optee/internal/util"
	"github.com/siderolabs/go-optee/pkg/param"
)

// CommandHandler runs one command of a session.
type CommandHandler func(ctx context.Context, params Parameters) error

type route struct {
	handler CommandHandler
	types   ParamTypes
	strict  bool
}

// Router dispatches commands to handlers registered by command ID. Sessions
// embed it to get InvokeCommand.
type Router struct {
	logger   *slog.Logger
	registry map[uint32]route
}

// NewRouter constructs an empty router.
func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		logger:   logger,
		registry: make(map[uint32]route),
	}
}

// RegisterCommand registers handler for command. The handler checks the
// parameter types itself.
func (r *Router) RegisterCommand(command uint32, handler CommandHandler) {
	util.TraceLog(r.logger, "registering command", "command", command)
	r.registry[command] = route{handler: handler}
}

// RegisterCommandTypes registers handler for command, rejecting with
// ErrBadParameters any call whose types word is not exactly types.
func (r *Router) RegisterCommandTypes(command uint32, types ParamTypes, handler CommandHandler) {
	util.TraceLog(r.logger, "registering command", "command", command, "param_types", types)
	r.registry[command] = route{handler: handler, types: types, strict: true}
}

// InvokeCommand implements SessionHandler. Unknown commands fail with
// ErrNotSupported.
func (r *Router) InvokeCommand(ctx context.Context, command uint32, params Parameters) error {
	l := r.logger.With("command", command, "param_types", params.Types())

	rt, ok := r.registry[command]
	if !ok {
		l.Debug("unhandled command")

		return NewError(ErrorKindNotSupported)
	}

	if rt.strict && params.Types() != rt.types {
		l.Debug("rejecting parameter types", "want", rt.types)

		return NewError(ErrorKindBadParameters)
	}

	if err := rt.handler(ctx, params); err != nil {
		if errors.Is(err, ErrShortBuffer) {
			l.Debug("command needs a larger buffer")
		} else {
			l.Error("command handler failed", "err", err)
		}

		return AsError(err)
	}

	util.TraceLog(l, "command done")

	return nil
}

// Dispatch decodes raws against the packed types word and invokes command on
// h. Whatever the handler writes through its parameters is in raws when
// Dispatch returns.
func Dispatch(ctx context.Context, h CommandInvoker, command, types uint32, raws *[param.Slots]param.Raw) error {
	return h.InvokeCommand(ctx, command, ParametersFromRaw(raws, types))
}
