// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package param

// Value is the value shape of a slot.
type Value struct {
	A uint32
	B uint32
}

// Block is a shared memory object registered with the boundary transport
// ahead of the calls that reference it.
type Block interface {
	// ID identifies the block in ABI images.
	ID() uint64
	// Bytes returns the whole block.
	Bytes() []byte
}

// Registered is the registered-memory shape of a slot: a window of Size bytes
// at Offset inside Parent.
type Registered struct {
	Parent Block
	Offset uint64
	Size   uint64
}

// Raw is the storage of one parameter slot. Exactly one of its shapes is
// meaningful and the slot's tag decides which; setting a shape clears the
// others. The shapes are only reachable through tag-checked views.
type Raw struct {
	value      Value
	memref     Buffer
	registered Registered
}

// RawValue returns a slot holding the value shape.
func RawValue(a, b uint32) Raw {
	return Raw{value: Value{A: a, B: b}}
}

// RawMemref returns a slot holding a temporary memory reference.
func RawMemref(buf Buffer) Raw {
	return Raw{memref: buf}
}

// RawRegistered returns a slot holding a registered memory reference.
func RawRegistered(reg Registered) Raw {
	return Raw{registered: reg}
}

// Reset zeroes every shape of the slot.
func (r *Raw) Reset() {
	*r = Raw{}
}

// IsZero reports whether every shape of the slot is zero.
func (r *Raw) IsZero() bool {
	return r.value == Value{} && r.memref == Buffer{} && r.registered.Parent == nil &&
		r.registered.Offset == 0 && r.registered.Size == 0
}
