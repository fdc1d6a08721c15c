// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package utee

import (
	"encoding/binary"
	"fmt"

	"github.com/siderolabs/go-optee/pkg/param"
)

// Layout of TEE_Param on 64-bit targets, four of them back to back:
//
//	value   {a uint32; b uint32}
//	memref  {buffer pointer; size uint32}
const (
	slotSize = 16

	// ParamsSize is the size of the [4]TEE_Param image.
	ParamsSize = param.Slots * slotSize
)

var byteOrder = binary.NativeEndian

// MarshalBinary writes the bit-exact [4]TEE_Param image of the parameters.
// Unused slots are all zero.
func (p Parameters) MarshalBinary() ([]byte, error) {
	b := make([]byte, ParamsSize)

	for i, s := range p.slots {
		slot := b[i*slotSize : (i+1)*slotSize]

		switch s.Type().Class() {
		case param.ClassValue:
			v, err := s.AsValue()
			if err != nil {
				return nil, err
			}

			byteOrder.PutUint32(slot[0:], v.A())
			byteOrder.PutUint32(slot[4:], v.B())
		case param.ClassTempMemref:
			m, err := s.p.AsMemref()
			if err != nil {
				return nil, AsError(err)
			}

			byteOrder.PutUint64(slot[0:], uint64(m.Buffer().Addr()))
			byteOrder.PutUint32(slot[8:], m.Buffer().Size())
		case param.ClassNone, param.ClassRegisteredMemref:
		}
	}

	return b, nil
}

// ImageSlot is one decoded slot of a [4]TEE_Param image.
type ImageSlot struct {
	Type ParamType
	A, B uint32
	Addr uint64
	Size uint32
}

// String describes the slot.
func (s ImageSlot) String() string {
	switch s.Type.Class() {
	case param.ClassValue:
		return fmt.Sprintf("%s a=%d b=%d", s.Type, s.A, s.B)
	case param.ClassTempMemref:
		return fmt.Sprintf("%s buffer=0x%x size=%d", s.Type, s.Addr, s.Size)
	case param.ClassNone, param.ClassRegisteredMemref:
	}

	return s.Type.String()
}

// ParseImage decodes a [4]TEE_Param image according to types.
func ParseImage(b []byte, types ParamTypes) ([param.Slots]ImageSlot, error) {
	var slots [param.Slots]ImageSlot

	if len(b) < ParamsSize {
		return slots, kindError(ErrorKindBadFormat, "parameter image of %d bytes, want %d", len(b), ParamsSize)
	}

	for i, typ := range types.Array() {
		slot := b[i*slotSize : (i+1)*slotSize]
		s := ImageSlot{Type: typ}

		switch typ.Class() {
		case param.ClassValue:
			s.A = byteOrder.Uint32(slot[0:])
			s.B = byteOrder.Uint32(slot[4:])
		case param.ClassTempMemref:
			s.Addr = byteOrder.Uint64(slot[0:])
			s.Size = byteOrder.Uint32(slot[8:])
		case param.ClassNone, param.ClassRegisteredMemref:
		}

		slots[i] = s
	}

	return slots, nil
}
