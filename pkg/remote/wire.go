// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/siderolabs/go-optee/pkg/param"
)

// Messages of the optee.remote.v1 protocol, in protobuf wire format:
//
//	message Slot {
//	  uint32 type = 1;
//	  uint32 a = 2;
//	  uint32 b = 3;
//	  bytes data = 4;
//	  uint64 size = 5;
//	}
//
//	message Operation { repeated Slot slots = 1; }
//	message Result { uint32 code = 1; uint32 origin = 2; }
//
//	message OpenSessionRequest { bytes uuid = 1; uint32 login = 2; Operation op = 3; }
//	message OpenSessionResponse { uint32 session = 1; Operation op = 2; Result result = 3; }
//	message InvokeCommandRequest { uint32 session = 1; uint32 command = 2; Operation op = 3; }
//	message InvokeCommandResponse { Operation op = 1; Result result = 2; }
//	message CloseSessionRequest { uint32 session = 1; }
//	message CloseSessionResponse { Result result = 1; }
//
// Memory references always travel as temporary references carrying a copy of
// the memory.

var errMalformed = errors.New("malformed message")

type message interface {
	marshal(b []byte) []byte
	unmarshal(b []byte) error
}

type slot struct {
	typ  uint32
	a, b uint32
	data []byte
	size uint64
}

func (s *slot) marshal(b []byte) []byte {
	b = appendUint32(b, 1, s.typ)
	b = appendUint32(b, 2, s.a)
	b = appendUint32(b, 3, s.b)

	if len(s.data) > 0 {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, s.data)
	}

	if s.size != 0 {
		b = protowire.AppendTag(b, 5, protowire.VarintType)
		b = protowire.AppendVarint(b, s.size)
	}

	return b
}

func (s *slot) unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeUint32(typ, b, &s.typ)
		case 2:
			return consumeUint32(typ, b, &s.a)
		case 3:
			return consumeUint32(typ, b, &s.b)
		case 4:
			return consumeBytes(typ, b, &s.data)
		case 5:
			return consumeUint64(typ, b, &s.size)
		}

		return skip(num, typ, b)
	})
}

type operation struct {
	slots [param.Slots]slot
}

func (o *operation) marshal(b []byte) []byte {
	for i := range o.slots {
		b = appendMessage(b, 1, &o.slots[i])
	}

	return b
}

func (o *operation) unmarshal(b []byte) error {
	n := 0

	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return skip(num, typ, b)
		}

		if n >= param.Slots {
			return 0, fmt.Errorf("%w: more than %d slots", errMalformed, param.Slots)
		}

		n++

		return consumeMessage(typ, b, &o.slots[n-1])
	})
}

type result struct {
	code   uint32
	origin uint32
}

func (s *result) marshal(b []byte) []byte {
	b = appendUint32(b, 1, s.code)

	return appendUint32(b, 2, s.origin)
}

func (s *result) unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeUint32(typ, b, &s.code)
		case 2:
			return consumeUint32(typ, b, &s.origin)
		}

		return skip(num, typ, b)
	})
}

type openSessionRequest struct {
	uuid  []byte
	login uint32
	op    *operation
}

func (m *openSessionRequest) marshal(b []byte) []byte {
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, m.uuid)
	b = appendUint32(b, 2, m.login)

	return appendOptional(b, 3, m.op)
}

func (m *openSessionRequest) unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeBytes(typ, b, &m.uuid)
		case 2:
			return consumeUint32(typ, b, &m.login)
		case 3:
			m.op = &operation{}

			return consumeMessage(typ, b, m.op)
		}

		return skip(num, typ, b)
	})
}

type openSessionResponse struct {
	session uint32
	op      *operation
	result  result
}

func (m *openSessionResponse) marshal(b []byte) []byte {
	b = appendUint32(b, 1, m.session)
	b = appendOptional(b, 2, m.op)

	return appendMessage(b, 3, &m.result)
}

func (m *openSessionResponse) unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeUint32(typ, b, &m.session)
		case 2:
			m.op = &operation{}

			return consumeMessage(typ, b, m.op)
		case 3:
			return consumeMessage(typ, b, &m.result)
		}

		return skip(num, typ, b)
	})
}

type invokeCommandRequest struct {
	session uint32
	command uint32
	op      *operation
}

func (m *invokeCommandRequest) marshal(b []byte) []byte {
	b = appendUint32(b, 1, m.session)
	b = appendUint32(b, 2, m.command)

	return appendOptional(b, 3, m.op)
}

func (m *invokeCommandRequest) unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeUint32(typ, b, &m.session)
		case 2:
			return consumeUint32(typ, b, &m.command)
		case 3:
			m.op = &operation{}

			return consumeMessage(typ, b, m.op)
		}

		return skip(num, typ, b)
	})
}

type invokeCommandResponse struct {
	op     *operation
	result result
}

func (m *invokeCommandResponse) marshal(b []byte) []byte {
	b = appendOptional(b, 1, m.op)

	return appendMessage(b, 2, &m.result)
}

func (m *invokeCommandResponse) unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			m.op = &operation{}

			return consumeMessage(typ, b, m.op)
		case 2:
			return consumeMessage(typ, b, &m.result)
		}

		return skip(num, typ, b)
	})
}

type closeSessionRequest struct {
	session uint32
}

func (m *closeSessionRequest) marshal(b []byte) []byte {
	return appendUint32(b, 1, m.session)
}

func (m *closeSessionRequest) unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeUint32(typ, b, &m.session)
		}

		return skip(num, typ, b)
	})
}

type closeSessionResponse struct {
	result result
}

func (m *closeSessionResponse) marshal(b []byte) []byte {
	return appendMessage(b, 1, &m.result)
}

func (m *closeSessionResponse) unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeMessage(typ, b, &m.result)
		}

		return skip(num, typ, b)
	})
}

func appendUint32(b []byte, num protowire.Number, v uint32) []byte {
	if v == 0 {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.VarintType)

	return protowire.AppendVarint(b, uint64(v))
}

func appendMessage(b []byte, num protowire.Number, m message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)

	return protowire.AppendBytes(b, m.marshal(nil))
}

func appendOptional(b []byte, num protowire.Number, op *operation) []byte {
	if op == nil {
		return b
	}

	return appendMessage(b, num, op)
}

// walk calls field for every field of b. field consumes the value and returns
// how many bytes it used.
func walk(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %w", errMalformed, protowire.ParseError(n))
		}

		b = b[n:]

		m, err := field(num, typ, b)
		if err != nil {
			return err
		}

		b = b[m:]
	}

	return nil
}

func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, fmt.Errorf("%w: field %d: %w", errMalformed, num, protowire.ParseError(n))
	}

	return n, nil
}

func consumeUint64(typ protowire.Type, b []byte, v *uint64) (int, error) {
	if typ != protowire.VarintType {
		return 0, fmt.Errorf("%w: wire type %d, want varint", errMalformed, typ)
	}

	x, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, fmt.Errorf("%w: %w", errMalformed, protowire.ParseError(n))
	}

	*v = x

	return n, nil
}

func consumeUint32(typ protowire.Type, b []byte, v *uint32) (int, error) {
	var x uint64

	n, err := consumeUint64(typ, b, &x)
	if err != nil {
		return 0, err
	}

	*v = uint32(x)

	return n, nil
}

func consumeBytes(typ protowire.Type, b []byte, v *[]byte) (int, error) {
	if typ != protowire.BytesType {
		return 0, fmt.Errorf("%w: wire type %d, want bytes", errMalformed, typ)
	}

	x, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, fmt.Errorf("%w: %w", errMalformed, protowire.ParseError(n))
	}

	*v = append([]byte(nil), x...)

	return n, nil
}

func consumeMessage(typ protowire.Type, b []byte, m message) (int, error) {
	var raw []byte

	n, err := consumeBytes(typ, b, &raw)
	if err != nil {
		return 0, err
	}

	return n, m.unmarshal(raw)
}
