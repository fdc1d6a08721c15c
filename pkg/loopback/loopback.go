// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package loopback is an in-process TEE. It hosts trusted applications in the
// calling process and hands them the client's operations the way a real TEE
// would: values are copied across and back, memory references are aliased.
package loopback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/siderolabs/go-optee/internal/util"
	"github.com/siderolabs/go-optee/pkg/teec"
	"github.com/siderolabs/go-optee/pkg/utee"
)

// ErrDuplicateApplication is returned when installing a second application
// under an already installed UUID.
var ErrDuplicateApplication = errors.New("trusted application already installed")

// TEE hosts trusted applications and implements teec.Transport.
type TEE struct {
	logger *slog.Logger

	mu        sync.Mutex
	apps      map[uuid.UUID]utee.TrustedApplication
	instances map[uuid.UUID]*instance
	sessions  map[uint32]*session
	next      uint32
}

type instance struct {
	app      utee.TrustedApplication
	header   utee.Header
	sessions int
}

type session struct {
	// serializes commands within the session
	mu       sync.Mutex
	id       uint32
	instance *instance
	handler  utee.SessionHandler
}

var _ teec.Transport = (*TEE)(nil)

// New constructs an empty TEE.
func New(logger *slog.Logger) *TEE {
	return &TEE{
		logger:    logger,
		apps:      make(map[uuid.UUID]utee.TrustedApplication),
		instances: make(map[uuid.UUID]*instance),
		sessions:  make(map[uint32]*session),
	}
}

// Install makes app available to OpenSession under its header UUID.
func (t *TEE) Install(app utee.TrustedApplication) error {
	h := app.Header()

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.apps[h.UUID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateApplication, h.UUID)
	}

	t.apps[h.UUID] = app
	t.logger.Info("installed trusted application", "uuid", h.UUID, "flags", h.Flags, "description", h.Description)

	return nil
}

// Applications lists the installed application headers.
func (t *TEE) Applications() []utee.Header {
	t.mu.Lock()
	defer t.mu.Unlock()

	headers := make([]utee.Header, 0, len(t.apps))
	for _, app := range t.apps {
		headers = append(headers, app.Header())
	}

	return headers
}

// OpenSession implements teec.Transport.
func (t *TEE) OpenSession(ctx context.Context, dest teec.UUID, login teec.LoginMethod, op *teec.Operation) (uint32, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}

	id := dest.UUID()
	l := t.logger.With("uuid", id)

	inst, err := t.acquire(ctx, id)
	if err != nil {
		l.Debug("no instance for session", "err", err)

		return 0, err
	}

	call, err := enter(op)
	if err != nil {
		t.release(ctx, inst)

		return 0, teec.AsError(err, teec.OriginTEE)
	}

	util.TraceLog(l, "opening session", "login", login, "param_types", call.types)

	handler, err := inst.app.OpenSession(ctx, call.parameters())

	call.leave(op)

	if err != nil {
		t.release(ctx, inst)

		return 0, fromApplication(err)
	}

	t.mu.Lock()
	t.next++
	s := &session{id: t.next, instance: inst, handler: handler}
	t.sessions[s.id] = s
	t.mu.Unlock()

	l.Debug("session opened", "session", s.id)

	return s.id, nil
}

// InvokeCommand implements teec.Transport.
func (t *TEE) InvokeCommand(ctx context.Context, id, command uint32, op *teec.Operation) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	t.mu.Lock()
	s, ok := t.sessions[id]
	t.mu.Unlock()

	if !ok {
		return teec.NewError(teec.ResultBadState, teec.OriginTEE)
	}

	call, err := enter(op)
	if err != nil {
		return teec.AsError(err, teec.OriginTEE)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	util.TraceLog(t.logger, "invoking command", "session", id, "command", command, "param_types", call.types)

	err = s.handler.InvokeCommand(ctx, command, call.parameters())

	call.leave(op)

	if err != nil {
		return fromApplication(err)
	}

	return nil
}

// CloseSession implements teec.Transport.
func (t *TEE) CloseSession(ctx context.Context, id uint32) error {
	t.mu.Lock()
	s, ok := t.sessions[id]
	delete(t.sessions, id)
	t.mu.Unlock()

	if !ok {
		return teec.NewError(teec.ResultBadState, teec.OriginTEE)
	}

	s.mu.Lock()
	s.handler.CloseSession(ctx)
	s.mu.Unlock()

	t.release(ctx, s.instance)
	t.logger.Debug("session closed", "session", id)

	return nil
}

// Close closes every open session and destroys every instance, including
// kept-alive ones.
func (t *TEE) Close(ctx context.Context) error {
	t.mu.Lock()
	ids := make([]uint32, 0, len(t.sessions))

	for id := range t.sessions {
		ids = append(ids, id)
	}
	t.mu.Unlock()

	var result *multierror.Error

	for _, id := range ids {
		if err := t.CloseSession(ctx, id); err != nil {
			result = multierror.Append(result, err)
		}
	}

	t.mu.Lock()
	instances := t.instances
	t.instances = make(map[uuid.UUID]*instance)
	t.mu.Unlock()

	for id, inst := range instances {
		t.logger.Debug("destroying instance", "uuid", id)
		inst.app.Destroy(ctx)
	}

	return result.ErrorOrNil()
}

// acquire finds or creates the instance a new session of id runs in.
func (t *TEE) acquire(ctx context.Context, id uuid.UUID) (*instance, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	app, ok := t.apps[id]
	if !ok {
		return nil, teec.NewError(teec.ResultItemNotFound, teec.OriginTEE)
	}

	h := app.Header()

	if h.Flags&utee.FlagSingleInstance != 0 {
		if inst, ok := t.instances[id]; ok {
			if inst.sessions > 0 && h.Flags&utee.FlagMultiSession == 0 {
				return nil, teec.NewError(teec.ResultBusy, teec.OriginTEE)
			}

			inst.sessions++

			return inst, nil
		}
	}

	if err := app.Create(ctx); err != nil {
		return nil, fromApplication(err)
	}

	inst := &instance{app: app, header: h, sessions: 1}

	if h.Flags&utee.FlagSingleInstance != 0 {
		t.instances[id] = inst
	}

	return inst, nil
}

// release drops a session from inst and destroys it once unused, unless it is
// a kept-alive single instance.
func (t *TEE) release(ctx context.Context, inst *instance) {
	t.mu.Lock()
	inst.sessions--

	destroy := inst.sessions == 0
	if destroy && inst.header.Flags&utee.FlagSingleInstance != 0 {
		if inst.header.Flags&utee.FlagInstanceKeepAlive != 0 {
			destroy = false
		} else {
			delete(t.instances, inst.header.UUID)
		}
	}
	t.mu.Unlock()

	if destroy {
		inst.app.Destroy(ctx)
	}
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", teec.NewError(teec.ResultCancel, teec.OriginComms), err)
	}

	return nil
}

// fromApplication turns an error returned by a trusted application into the
// client's view of it.
func fromApplication(err error) error {
	e := utee.AsError(err)

	return teec.NewError(teec.Result(e.Kind), teec.OriginTrustedApp)
}
