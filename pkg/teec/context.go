// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package teec

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// LoginMethod is the identity a client presents when opening a session.
type LoginMethod uint32

// Login methods.
const (
	LoginPublic           LoginMethod = 0x0
	LoginUser             LoginMethod = 0x1
	LoginGroup            LoginMethod = 0x2
	LoginApplication      LoginMethod = 0x4
	LoginUserApplication  LoginMethod = 0x5
	LoginGroupApplication LoginMethod = 0x6
)

// Transport carries operations across the boundary. It may block for the
// whole round trip. Failures are reported as *Error values carrying the
// return code and origin.
type Transport interface {
	// OpenSession opens a session with the trusted application dest. op may
	// be nil.
	OpenSession(ctx context.Context, dest UUID, login LoginMethod, op *Operation) (uint32, error)
	// InvokeCommand runs command in session. op may be nil.
	InvokeCommand(ctx context.Context, session uint32, command uint32, op *Operation) error
	// CloseSession closes session.
	CloseSession(ctx context.Context, session uint32) error
}

// ErrContextClosed is returned by calls on a closed Context.
var ErrContextClosed = errors.New("tee context is closed")

// Context is a client's connection to a TEE.
type Context struct {
	transport Transport
	logger    *slog.Logger

	mu       sync.Mutex
	closed   bool
	sessions map[uint32]*Session
	shm      map[*SharedMemory]struct{}
}

// NewContext returns a Context using transport.
func NewContext(transport Transport, logger *slog.Logger) *Context {
	return &Context{
		transport: transport,
		logger:    logger,
		sessions:  make(map[uint32]*Session),
		shm:       make(map[*SharedMemory]struct{}),
	}
}

// OpenSession opens a session with the trusted application dest. op, if not
// nil, is passed to the application's open entry point and carries its
// outputs back.
func (c *Context) OpenSession(ctx context.Context, dest UUID, login LoginMethod, op *Operation) (*Session, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return nil, ErrContextClosed
	}

	l := c.logger.With("uuid", dest.String())
	l.Debug("opening session", "login", login, "param_types", paramTypesOf(op))

	if op != nil {
		op.started = 1
	}

	id, err := c.transport.OpenSession(ctx, dest, login, op)
	if err != nil {
		l.Debug("open session failed", "err", err)

		return nil, err
	}

	s := &Session{context: c, id: id, logger: l.With("session", id)}

	if op != nil {
		op.start(s)
	}

	c.mu.Lock()
	c.sessions[id] = s
	c.mu.Unlock()

	s.logger.Debug("session opened")

	return s, nil
}

// AllocateSharedMemory allocates a block of size bytes that operations can
// reference through ParamMemref.
func (c *Context) AllocateSharedMemory(size int, flags MemFlags) (*SharedMemory, error) {
	if size < 0 {
		return nil, apiError(ResultBadParameters, "negative shared memory size %d", size)
	}

	var (
		mem     = []byte{}
		release func([]byte) error
	)

	if size > 0 {
		var err error

		mem, release, err = allocate(size)
		if err != nil {
			c.logger.Error("error allocating shared memory", "size", size, "err", err)

			return nil, NewError(ResultOutOfMemory, OriginAPI)
		}
	}

	return c.track(newSharedMemory(mem, flags, true, release)), nil
}

// RegisterSharedMemory registers caller memory so operations can reference it
// through ParamMemref. The memory stays owned by the caller.
func (c *Context) RegisterSharedMemory(buffer []byte, flags MemFlags) (*SharedMemory, error) {
	if buffer == nil {
		buffer = []byte{}
	}

	return c.track(newSharedMemory(buffer, flags, false, nil)), nil
}

func (c *Context) track(shm *SharedMemory) *SharedMemory {
	c.mu.Lock()
	c.shm[shm] = struct{}{}
	c.mu.Unlock()

	c.logger.Debug("registered shared memory", "id", shm.ID(), "size", shm.Size(), "flags", shm.Flags())

	return shm
}

// ReleaseSharedMemory releases a block obtained from this Context.
func (c *Context) ReleaseSharedMemory(shm *SharedMemory) error {
	c.mu.Lock()
	delete(c.shm, shm)
	c.mu.Unlock()

	return shm.Release()
}

// Close closes every open session and releases every block still registered.
func (c *Context) Close(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	sessions := c.sessions
	blocks := c.shm
	c.sessions = make(map[uint32]*Session)
	c.shm = make(map[*SharedMemory]struct{})
	c.mu.Unlock()

	var result *multierror.Error

	for _, s := range sessions {
		if err := c.transport.CloseSession(ctx, s.id); err != nil {
			c.logger.Warn("failed to close session", "session", s.id, "err", err)
			result = multierror.Append(result, err)
		}
	}

	for shm := range blocks {
		if err := shm.Release(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func (c *Context) forget(id uint32) {
	c.mu.Lock()
	delete(c.sessions, id)
	c.mu.Unlock()
}

// Session is an open session with a trusted application.
type Session struct {
	context *Context
	id      uint32
	logger  *slog.Logger
}

// ID returns the session identifier assigned by the transport.
func (s *Session) ID() uint32 {
	return s.id
}

// InvokeCommand runs command. op, if not nil, carries the parameters and
// receives the outputs.
func (s *Session) InvokeCommand(ctx context.Context, command uint32, op *Operation) error {
	s.logger.Debug("invoking command", "command", command, "param_types", paramTypesOf(op))

	if op != nil {
		op.start(s)
	}

	if err := s.context.transport.InvokeCommand(ctx, s.id, command, op); err != nil {
		s.logger.Debug("command failed", "command", command, "err", err)

		return err
	}

	return nil
}

// Close closes the session.
func (s *Session) Close(ctx context.Context) error {
	s.logger.Debug("closing session")
	s.context.forget(s.id)

	return s.context.transport.CloseSession(ctx, s.id)
}

func paramTypesOf(op *Operation) string {
	if op == nil {
		return ParamTypes(0).String()
	}

	return op.ParamTypes().String()
}
