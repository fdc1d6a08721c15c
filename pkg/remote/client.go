// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/siderolabs/go-optee/internal/util"
	"github.com/siderolabs/go-optee/pkg/teec"
)

// Client is a teec.Transport talking to a remote Server.
type Client struct {
	conn   grpc.ClientConnInterface
	logger *slog.Logger
}

var _ teec.Transport = (*Client)(nil)

// NewClient constructs a Client on conn.
func NewClient(conn grpc.ClientConnInterface, logger *slog.Logger) *Client {
	return &Client{conn: conn, logger: logger}
}

func (c *Client) invoke(ctx context.Context, method string, req, resp message) error {
	util.TraceLog(c.logger, "calling", "method", method)

	if err := c.conn.Invoke(ctx, method, req, resp, grpc.CallContentSubtype(CodecName)); err != nil {
		c.logger.Debug("call failed", "method", method, "err", err)

		return fromStatus(err)
	}

	return nil
}

// OpenSession implements teec.Transport.
func (c *Client) OpenSession(ctx context.Context, dest teec.UUID, login teec.LoginMethod, op *teec.Operation) (uint32, error) {
	w, err := encodeOperation(op)
	if err != nil {
		return 0, teec.AsError(err, teec.OriginAPI)
	}

	id := dest.UUID()
	req := &openSessionRequest{uuid: id[:], login: uint32(login), op: w}
	resp := &openSessionResponse{}

	if err = c.invoke(ctx, methodOpenSession, req, resp); err != nil {
		return 0, err
	}

	if err = applyOperation(op, resp.op); err != nil {
		return 0, teec.AsError(err, teec.OriginComms)
	}

	if err = resp.result.err(); err != nil {
		return 0, err
	}

	return resp.session, nil
}

// InvokeCommand implements teec.Transport.
func (c *Client) InvokeCommand(ctx context.Context, session, command uint32, op *teec.Operation) error {
	w, err := encodeOperation(op)
	if err != nil {
		return teec.AsError(err, teec.OriginAPI)
	}

	req := &invokeCommandRequest{session: session, command: command, op: w}
	resp := &invokeCommandResponse{}

	if err = c.invoke(ctx, methodInvokeCommand, req, resp); err != nil {
		return err
	}

	if err = applyOperation(op, resp.op); err != nil {
		return teec.AsError(err, teec.OriginComms)
	}

	return resp.result.err()
}

// CloseSession implements teec.Transport.
func (c *Client) CloseSession(ctx context.Context, session uint32) error {
	resp := &closeSessionResponse{}

	if err := c.invoke(ctx, methodCloseSession, &closeSessionRequest{session: session}, resp); err != nil {
		return err
	}

	return resp.result.err()
}

func (r result) err() error {
	if r.code == uint32(teec.ResultSuccess) {
		return nil
	}

	return teec.NewError(teec.Result(r.code), teec.ReturnOrigin(r.origin))
}

func resultOf(err error) result {
	e := teec.AsError(err, teec.OriginTEE)
	if e == nil {
		return result{}
	}

	return result{code: uint32(e.Code), origin: uint32(e.Origin)}
}

// fromStatus maps a failed gRPC call to a communication error, or to a
// cancellation.
func fromStatus(err error) error {
	code := teec.ResultCommunication

	switch status.Code(err) { //nolint:exhaustive
	case codes.Canceled, codes.DeadlineExceeded:
		code = teec.ResultCancel
	}

	return fmt.Errorf("%w: %w", teec.NewError(code, teec.OriginComms), err)
}
