// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package param

import (
	"math"
	"unsafe"
)

// MaxSize is the largest length the protocol's size field can describe.
const MaxSize = math.MaxUint32

// Buffer is a bounds-checked pointer and length pair describing memory owned
// by someone else. Its capacity is the length of the memory it was built
// from; its size is the length reported across the boundary, which a callee
// may change (for example to ask for a larger output buffer) without touching
// the memory itself.
type Buffer struct {
	ptr      unsafe.Pointer
	capacity uint32
	size     uint32
}

// NewBuffer describes b without copying it. Lengths beyond MaxSize fail with
// ErrSizeOverflow; the buffer is never truncated.
func NewBuffer(b []byte) (Buffer, error) {
	if !fitsSize(uint64(len(b))) {
		return Buffer{}, ErrSizeOverflow
	}

	return Buffer{
		ptr:      unsafe.Pointer(unsafe.SliceData(b)),
		capacity: uint32(len(b)),
		size:     uint32(len(b)),
	}, nil
}

func fitsSize(n uint64) bool {
	return n <= MaxSize
}

// Bytes returns the referenced memory, limited to the reported size and to
// the memory actually described.
func (b Buffer) Bytes() []byte {
	n := min(b.size, b.capacity)
	if b.ptr == nil || n == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(b.ptr), n)
}

// Size returns the reported size.
func (b Buffer) Size() uint32 {
	return b.size
}

// Cap returns the length of the memory the buffer was built from.
func (b Buffer) Cap() uint32 {
	return b.capacity
}

// Short reports whether the reported size exceeds the memory available.
func (b Buffer) Short() bool {
	return b.size > b.capacity
}

// Addr returns the address of the memory, as written into an ABI image.
func (b Buffer) Addr() uintptr {
	return uintptr(b.ptr)
}

// SetSize changes the reported size only.
func (b *Buffer) SetSize(n uint32) {
	b.size = n
}
