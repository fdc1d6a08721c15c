// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"

	"google.golang.org/grpc"
)

const (
	serviceName = "optee.remote.v1.TEE"

	methodOpenSession   = "/" + serviceName + "/OpenSession"
	methodInvokeCommand = "/" + serviceName + "/InvokeCommand"
	methodCloseSession  = "/" + serviceName + "/CloseSession"
)

type teeServer interface {
	openSession(ctx context.Context, req *openSessionRequest) (*openSessionResponse, error)
	invokeCommand(ctx context.Context, req *invokeCommandRequest) (*invokeCommandResponse, error)
	closeSession(ctx context.Context, req *closeSessionRequest) (*closeSessionResponse, error)
}

func unaryHandler[Req any, Resp any, PReq interface {
	*Req
	message
}](method string, call func(teeServer, context.Context, PReq) (Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := PReq(new(Req))
		if err := dec(req); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(srv.(teeServer), ctx, req)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}

		return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(teeServer), ctx, req.(PReq))
		})
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*teeServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "OpenSession",
			Handler:    unaryHandler(methodOpenSession, teeServer.openSession),
		},
		{
			MethodName: "InvokeCommand",
			Handler:    unaryHandler(methodInvokeCommand, teeServer.invokeCommand),
		},
		{
			MethodName: "CloseSession",
			Handler:    unaryHandler(methodCloseSession, teeServer.closeSession),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "optee/remote/v1/tee.proto",
}
