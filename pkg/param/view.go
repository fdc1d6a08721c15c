// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package param

import "fmt"

// ValueView is a live handle on the value shape of a slot.
type ValueView[T Tag] struct {
	v   *Value
	tag T
}

// Type returns the slot's tag.
func (v ValueView[T]) Type() T {
	return v.tag
}

// A returns the first value.
func (v ValueView[T]) A() uint32 {
	return v.v.A
}

// B returns the second value.
func (v ValueView[T]) B() uint32 {
	return v.v.B
}

// SetA writes the first value into the slot.
func (v ValueView[T]) SetA(a uint32) {
	v.v.A = a
}

// SetB writes the second value into the slot.
func (v ValueView[T]) SetB(b uint32) {
	v.v.B = b
}

// MemrefView is a live handle on the memory a slot references, for either
// temporary or registered references.
type MemrefView[T Tag] struct {
	raw *Raw
	tag T
}

// Type returns the slot's tag.
func (m MemrefView[T]) Type() T {
	return m.tag
}

// Bytes returns the referenced memory, bounded by both the reported size and
// the memory actually available.
func (m MemrefView[T]) Bytes() []byte {
	if m.tag.Class() == ClassRegisteredMemref {
		return window(m.raw.registered)
	}

	return m.raw.memref.Bytes()
}

// Size returns the reported size.
func (m MemrefView[T]) Size() uint64 {
	if m.tag.Class() == ClassRegisteredMemref {
		return m.raw.registered.Size
	}

	return uint64(m.raw.memref.Size())
}

// Cap returns how many bytes can be reached through the view at most.
func (m MemrefView[T]) Cap() uint64 {
	if m.tag.Class() == ClassRegisteredMemref {
		reg := m.raw.registered
		if reg.Parent == nil || reg.Offset > uint64(len(reg.Parent.Bytes())) {
			return 0
		}

		return uint64(len(reg.Parent.Bytes())) - reg.Offset
	}

	return uint64(m.raw.memref.Cap())
}

// SetUpdatedSize changes the size reported back to the caller without
// touching the memory. Temporary references fail with ErrSizeOverflow when n
// does not fit the 32-bit size field.
func (m MemrefView[T]) SetUpdatedSize(n uint64) error {
	if m.tag.Class() == ClassRegisteredMemref {
		m.raw.registered.Size = n

		return nil
	}

	if !fitsSize(n) {
		return ErrSizeOverflow
	}

	m.raw.memref.SetSize(uint32(n))

	return nil
}

// Buffer returns the temporary reference descriptor; it is the zero Buffer
// for registered references.
func (m MemrefView[T]) Buffer() Buffer {
	if m.tag.Class() == ClassRegisteredMemref {
		return Buffer{}
	}

	return m.raw.memref
}

func window(reg Registered) []byte {
	if reg.Parent == nil {
		return nil
	}

	block := reg.Parent.Bytes()
	if reg.Offset >= uint64(len(block)) {
		return nil
	}

	end := uint64(len(block))
	if reg.Size < end-reg.Offset {
		end = reg.Offset + reg.Size
	}

	return block[reg.Offset:end]
}

// RegisteredView exposes the registration of a registered memory reference.
type RegisteredView[T Tag] struct {
	reg *Registered
	tag T
}

// Type returns the slot's tag.
func (r RegisteredView[T]) Type() T {
	return r.tag
}

// Parent returns the shared memory block.
func (r RegisteredView[T]) Parent() Block {
	return r.reg.Parent
}

// Offset returns the window offset inside the block.
func (r RegisteredView[T]) Offset() uint64 {
	return r.reg.Offset
}

// Size returns the reported window size.
func (r RegisteredView[T]) Size() uint64 {
	return r.reg.Size
}

func mismatch[T Tag](tag T, want string) error {
	return fmt.Errorf("%w: %s slot is not a %s parameter", ErrBadParameters, tag, want)
}
