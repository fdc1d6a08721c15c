// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package ta

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/siderolabs/go-optee/pkg/utee"
)

// ReverseUUID identifies the reverse application.
var ReverseUUID = uuid.MustParse("d96a5b40-e2c7-b1e1-87a3-0800200c9a66")

// ReverseCmdReverse reverses the MemrefInput in slot 0 into the MemrefOutput in
// slot 1. When the output is too small it reports the size needed and fails
// with a short buffer error.
const ReverseCmdReverse uint32 = 0

// Reverse is a multi instance application reversing byte strings.
type Reverse struct {
	logger *slog.Logger
}

// NewReverse constructs the reverse application.
func NewReverse(logger *slog.Logger) *Reverse {
	return &Reverse{logger: logger}
}

// Header implements utee.TrustedApplication.
func (r *Reverse) Header() utee.Header {
	return utee.Header{
		UUID:        ReverseUUID,
		StackSize:   4 * 1024,
		DataSize:    64 * 1024,
		Version:     "0.1.0",
		Description: "reverses byte strings",
	}
}

// Create implements utee.TrustedApplication.
func (r *Reverse) Create(context.Context) error {
	return nil
}

// Destroy implements utee.TrustedApplication.
func (r *Reverse) Destroy(context.Context) {}

// OpenSession implements utee.TrustedApplication.
func (r *Reverse) OpenSession(context.Context, utee.Parameters) (utee.SessionHandler, error) {
	s := &reverseSession{Router: utee.NewRouter(r.logger)}

	s.RegisterCommandTypes(ReverseCmdReverse,
		utee.NewParamTypes(utee.ParamTypeMemrefInput, utee.ParamTypeMemrefOutput, utee.ParamTypeNone, utee.ParamTypeNone),
		r.reverse)

	return s, nil
}

func (r *Reverse) reverse(_ context.Context, params utee.Parameters) error {
	in, err := params.Slot(0).AsMemref()
	if err != nil {
		return err
	}

	out, err := params.Slot(1).AsMemref()
	if err != nil {
		return err
	}

	src, dst := in.Buffer(), out.Buffer()

	if len(dst) < len(src) {
		r.logger.Debug("output buffer too small", "have", len(dst), "need", len(src))
		out.SetUpdatedSize(uint32(len(src)))

		return utee.ErrShortBuffer
	}

	for i, b := range src {
		dst[len(src)-1-i] = b
	}

	out.SetUpdatedSize(uint32(len(src)))

	return nil
}

type reverseSession struct {
	*utee.Router
}

// CloseSession implements utee.SessionHandler.
func (s *reverseSession) CloseSession(context.Context) {}
