// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc"

	"github.com/siderolabs/go-optee/pkg/teec"
)

// DefaultMaxBuffer bounds the memory a single reference may ask the server
// to allocate.
const DefaultMaxBuffer = 16 << 20

// Server serves a local teec.Transport to remote clients.
type Server struct {
	transport teec.Transport
	logger    *slog.Logger
	maxBuffer uint64
}

// NewServer constructs a Server for transport.
func NewServer(transport teec.Transport, logger *slog.Logger) *Server {
	return &Server{
		transport: transport,
		logger:    logger,
		maxBuffer: DefaultMaxBuffer,
	}
}

// SetMaxBuffer changes the largest memory reference the server accepts.
func (s *Server) SetMaxBuffer(n uint64) {
	s.maxBuffer = n
}

// Register registers the service with r.
func (s *Server) Register(r grpc.ServiceRegistrar) {
	r.RegisterService(&serviceDesc, s)
}

func (s *Server) openSession(ctx context.Context, req *openSessionRequest) (*openSessionResponse, error) {
	id, err := uuid.FromBytes(req.uuid)
	if err != nil {
		s.logger.Debug("rejecting malformed uuid", "err", err)

		return &openSessionResponse{result: resultOf(teec.NewError(teec.ResultBadFormat, teec.OriginComms))}, nil
	}

	l := s.logger.With("uuid", id)

	op, err := decodeOperation(req.op, s.maxBuffer)
	if err != nil {
		l.Debug("rejecting operation", "err", err)

		return &openSessionResponse{result: resultOf(err)}, nil
	}

	session, err := s.transport.OpenSession(ctx, teec.UUIDFrom(id), teec.LoginMethod(req.login), op)
	if err != nil {
		l.Debug("open session failed", "err", err)
	} else {
		l.Debug("session opened", "session", session)
	}

	return &openSessionResponse{session: session, op: encodeOutputs(op), result: resultOf(err)}, nil
}

func (s *Server) invokeCommand(ctx context.Context, req *invokeCommandRequest) (*invokeCommandResponse, error) {
	l := s.logger.With("session", req.session, "command", req.command)

	op, err := decodeOperation(req.op, s.maxBuffer)
	if err != nil {
		l.Debug("rejecting operation", "err", err)

		return &invokeCommandResponse{result: resultOf(err)}, nil
	}

	err = s.transport.InvokeCommand(ctx, req.session, req.command, op)
	if err != nil {
		l.Debug("command failed", "err", err)
	}

	return &invokeCommandResponse{op: encodeOutputs(op), result: resultOf(err)}, nil
}

func (s *Server) closeSession(ctx context.Context, req *closeSessionRequest) (*closeSessionResponse, error) {
	s.logger.Debug("closing session", "session", req.session)

	return &closeSessionResponse{result: resultOf(s.transport.CloseSession(ctx, req.session))}, nil
}
