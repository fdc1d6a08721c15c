// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package teec

import (
	"encoding/binary"
	"fmt"

	"github.com/siderolabs/go-optee/pkg/param"
)

// Layout of TEEC_Operation on 64-bit targets:
//
//	0   started      uint32
//	4   paramTypes   uint32
//	8   params[4]    24-byte unions
//	104 session      pointer
//
// Each params union is one of
//
//	value   {a uint32; b uint32}
//	tmpref  {buffer pointer; size size_t}
//	memref  {parent pointer; size size_t; offset size_t}
const (
	slotSize      = 24
	slotsOffset   = 8
	sessionOffset = slotsOffset + param.Slots*slotSize

	// OperationSize is the size of the TEEC_Operation image.
	OperationSize = sessionOffset + 8
)

var byteOrder = binary.NativeEndian

// MarshalBinary writes the bit-exact TEEC_Operation image. Buffer addresses
// are those of the referenced memory at the time of the call; registered
// references carry the block ID and the session anchor carries the session ID.
func (op *Operation) MarshalBinary() ([]byte, error) {
	b := make([]byte, OperationSize)

	byteOrder.PutUint32(b[0:], op.started)
	byteOrder.PutUint32(b[4:], op.types.Uint32())

	for i, p := range op.Params() {
		slot := b[slotsOffset+i*slotSize : slotsOffset+(i+1)*slotSize]

		switch p.Type().Class() {
		case param.ClassNone:
		case param.ClassValue:
			v, err := p.AsValue()
			if err != nil {
				return nil, err
			}

			byteOrder.PutUint32(slot[0:], v.A())
			byteOrder.PutUint32(slot[4:], v.B())
		case param.ClassTempMemref:
			m, err := p.AsMemref()
			if err != nil {
				return nil, err
			}

			byteOrder.PutUint64(slot[0:], uint64(m.Buffer().Addr()))
			byteOrder.PutUint64(slot[8:], m.Size())
		case param.ClassRegisteredMemref:
			r, err := p.AsRegistered()
			if err != nil {
				return nil, err
			}

			if r.Parent() != nil {
				byteOrder.PutUint64(slot[0:], r.Parent().ID())
			}

			byteOrder.PutUint64(slot[8:], r.Size())
			byteOrder.PutUint64(slot[16:], r.Offset())
		}
	}

	if op.session != nil {
		byteOrder.PutUint64(b[sessionOffset:], uint64(op.session.ID()))
	}

	return b, nil
}

// ImageSlot is one decoded slot of an operation image. Only the fields of the
// slot's class are set.
type ImageSlot struct {
	Type   ParamType
	A, B   uint32
	Addr   uint64
	Size   uint64
	Offset uint64
}

// String describes the slot.
func (s ImageSlot) String() string {
	switch s.Type.Class() {
	case param.ClassValue:
		return fmt.Sprintf("%s a=%d b=%d", s.Type, s.A, s.B)
	case param.ClassTempMemref:
		return fmt.Sprintf("%s buffer=0x%x size=%d", s.Type, s.Addr, s.Size)
	case param.ClassRegisteredMemref:
		return fmt.Sprintf("%s parent=%d size=%d offset=%d", s.Type, s.Addr, s.Size, s.Offset)
	case param.ClassNone:
	}

	return s.Type.String()
}

// Image is a decoded TEEC_Operation image. Addresses are informational: they
// are only meaningful in the address space that produced the image.
type Image struct {
	Started uint32
	Types   ParamTypes
	Slots   [param.Slots]ImageSlot
	Session uint64
}

// ParseImage decodes a TEEC_Operation image. Like any decode of packed types,
// nibbles that are not client parameter types read as unused slots.
func ParseImage(b []byte) (*Image, error) {
	if len(b) < OperationSize {
		return nil, apiError(ResultBadFormat, "operation image of %d bytes, want %d", len(b), OperationSize)
	}

	img := &Image{
		Started: byteOrder.Uint32(b[0:]),
		Types:   ParamTypes(byteOrder.Uint32(b[4:])),
		Session: byteOrder.Uint64(b[sessionOffset:]),
	}

	for i, typ := range img.Types.Array() {
		slot := b[slotsOffset+i*slotSize : slotsOffset+(i+1)*slotSize]
		s := ImageSlot{Type: typ}

		switch typ.Class() {
		case param.ClassNone:
		case param.ClassValue:
			s.A = byteOrder.Uint32(slot[0:])
			s.B = byteOrder.Uint32(slot[4:])
		case param.ClassTempMemref:
			s.Addr = byteOrder.Uint64(slot[0:])
			s.Size = byteOrder.Uint64(slot[8:])
		case param.ClassRegisteredMemref:
			s.Addr = byteOrder.Uint64(slot[0:])
			s.Size = byteOrder.Uint64(slot[8:])
			s.Offset = byteOrder.Uint64(slot[16:])
		}

		img.Slots[i] = s
	}

	return img, nil
}
