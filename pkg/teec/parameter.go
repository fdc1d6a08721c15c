// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package teec

import (
	"github.com/siderolabs/go-optee/pkg/param"
)

// Param is a typed parameter that can fill one slot of an Operation.
type Param = param.Encoder[ParamType]

// ParamNone fills an unused slot.
type ParamNone struct{}

// Type implements Param.
func (ParamNone) Type() ParamType {
	return ParamTypeNone
}

// Encode implements Param; an unused slot is all zero.
func (ParamNone) Encode() param.Raw {
	return param.Raw{}
}

// ParamValue is a pair of 32-bit values.
type ParamValue struct {
	value param.Value
	typ   ParamType
}

// NewParamValue builds a value parameter. typ must be a value type.
func NewParamValue(a, b uint32, typ ParamType) (ParamValue, error) {
	if typ.Class() != param.ClassValue {
		return ParamValue{}, apiError(ResultBadParameters, "%s is not a value type", typ)
	}

	return ParamValue{value: param.Value{A: a, B: b}, typ: typ}, nil
}

// ParamValueFromRaw reads a value parameter out of a decoded slot.
func ParamValueFromRaw(p param.Param[ParamType]) (ParamValue, error) {
	v, err := p.AsValue()
	if err != nil {
		return ParamValue{}, AsError(err, OriginAPI)
	}

	return ParamValue{value: param.Value{A: v.A(), B: v.B()}, typ: v.Type()}, nil
}

// A returns the first value.
func (p ParamValue) A() uint32 {
	return p.value.A
}

// B returns the second value.
func (p ParamValue) B() uint32 {
	return p.value.B
}

// Type implements Param.
func (p ParamValue) Type() ParamType {
	return p.typ
}

// Encode implements Param.
func (p ParamValue) Encode() param.Raw {
	return param.RawValue(p.value.A, p.value.B)
}

// ParamTmpRef references caller memory for the duration of one operation.
// The memory is shared, not copied: the trusted application reads and writes
// it in place.
type ParamTmpRef struct {
	buf    param.Buffer
	memory []byte
	typ    ParamType
}

// NewParamTmpRef wraps buffer. typ must be a temporary memory reference type.
// Buffers longer than the 32-bit size field fail with ResultTargetDead.
func NewParamTmpRef(buffer []byte, typ ParamType) (*ParamTmpRef, error) {
	if typ.Class() != param.ClassTempMemref {
		return nil, apiError(ResultBadParameters, "%s is not a temporary memory reference type", typ)
	}

	buf, err := param.NewBuffer(buffer)
	if err != nil {
		return nil, apiError(ResultTargetDead, "temporary reference of %d bytes", len(buffer))
	}

	return &ParamTmpRef{buf: buf, memory: buffer, typ: typ}, nil
}

// Buffer returns the referenced memory.
func (p *ParamTmpRef) Buffer() []byte {
	return p.memory
}

// Type implements Param.
func (p *ParamTmpRef) Type() ParamType {
	return p.typ
}

// Encode implements Param.
func (p *ParamTmpRef) Encode() param.Raw {
	return param.RawMemref(p.buf)
}

// ParamMemref references a registered shared memory block, in whole or in
// part.
type ParamMemref struct {
	shm    *SharedMemory
	offset uint64
	size   uint64
	typ    ParamType
}

// NewParamMemrefWhole references all of shm.
func NewParamMemrefWhole(shm *SharedMemory) (*ParamMemref, error) {
	if shm == nil || shm.released() {
		return nil, apiError(ResultBadParameters, "whole memory reference without a registered block")
	}

	return &ParamMemref{shm: shm, size: uint64(shm.Size()), typ: ParamTypeMemrefWhole}, nil
}

// NewParamMemrefPartial references size bytes at offset inside shm. typ must be
// one of the partial memory reference types and the window must lie inside
// the block.
func NewParamMemrefPartial(shm *SharedMemory, offset, size uint64, typ ParamType) (*ParamMemref, error) {
	switch typ {
	case ParamTypeMemrefPartialInput, ParamTypeMemrefPartialOutput, ParamTypeMemrefPartialInout:
	default:
		return nil, apiError(ResultBadParameters, "%s is not a partial memory reference type", typ)
	}

	if shm == nil || shm.released() {
		return nil, apiError(ResultBadParameters, "partial memory reference without a registered block")
	}

	blockSize := uint64(shm.Size())
	if offset > blockSize || size > blockSize-offset {
		return nil, apiError(ResultBadParameters, "window [%d, %d+%d) outside block of %d bytes", offset, offset, size, blockSize)
	}

	if typ.Direction().IsInput() && shm.Flags()&MemInput == 0 {
		return nil, apiError(ResultBadParameters, "%s on a block not registered for input", typ)
	}

	if typ.Direction().IsOutput() && shm.Flags()&MemOutput == 0 {
		return nil, apiError(ResultBadParameters, "%s on a block not registered for output", typ)
	}

	return &ParamMemref{shm: shm, offset: offset, size: size, typ: typ}, nil
}

// SharedMemory returns the parent block.
func (p *ParamMemref) SharedMemory() *SharedMemory {
	return p.shm
}

// Offset returns the window offset.
func (p *ParamMemref) Offset() uint64 {
	return p.offset
}

// Size returns the window size.
func (p *ParamMemref) Size() uint64 {
	return p.size
}

// Type implements Param.
func (p *ParamMemref) Type() ParamType {
	return p.typ
}

// Encode implements Param.
func (p *ParamMemref) Encode() param.Raw {
	return param.RawRegistered(param.Registered{Parent: p.shm, Offset: p.offset, Size: p.size})
}

// SlotDirection returns the data flow of a decoded slot. Whole block
// references take it from the flags of the block.
func SlotDirection(p param.Param[ParamType]) (param.Direction, error) {
	if p.Type() != ParamTypeMemrefWhole {
		return p.Type().Direction(), nil
	}

	r, err := p.AsRegistered()
	if err != nil {
		return param.DirNone, err
	}

	shm, ok := r.Parent().(*SharedMemory)
	if !ok || shm == nil {
		return param.DirNone, apiError(ResultBadParameters, "whole block reference without a shared memory block")
	}

	dir := param.DirNone

	if shm.Flags()&MemInput != 0 {
		dir |= param.DirInput
	}

	if shm.Flags()&MemOutput != 0 {
		dir |= param.DirOutput
	}

	if dir == param.DirNone {
		return dir, apiError(ResultBadParameters, "whole block reference on a block with no direction flags")
	}

	return dir, nil
}
