// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package teec

import (
	"sync"
	"sync/atomic"
)

// MemFlags tells which way a shared memory block may be used.
type MemFlags uint32

// Shared memory flags.
const (
	MemInput  MemFlags = 0x1
	MemOutput MemFlags = 0x2
)

var nextSharedMemoryID atomic.Uint64

// SharedMemory is a block of memory registered with a Context ahead of the
// operations that reference it, through ParamMemref.
type SharedMemory struct {
	mu        sync.Mutex
	id        uint64
	buffer    []byte
	flags     MemFlags
	allocated bool
	release   func([]byte) error
}

// ID identifies the block in operation images.
func (s *SharedMemory) ID() uint64 {
	return s.id
}

// Bytes returns the whole block, or nil once released.
func (s *SharedMemory) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buffer
}

// Size returns the block size.
func (s *SharedMemory) Size() int {
	return len(s.Bytes())
}

// Flags returns the block's direction flags.
func (s *SharedMemory) Flags() MemFlags {
	return s.flags
}

// Allocated reports whether the memory was allocated by the Context rather
// than supplied by the caller.
func (s *SharedMemory) Allocated() bool {
	return s.allocated
}

func (s *SharedMemory) released() bool {
	return s.Bytes() == nil
}

// Release unregisters the block and frees memory the Context allocated.
// Memory supplied by the caller is left alone.
func (s *SharedMemory) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buffer == nil {
		return nil
	}

	buf := s.buffer
	s.buffer = nil

	if s.release != nil {
		return s.release(buf)
	}

	return nil
}

func newSharedMemory(buffer []byte, flags MemFlags, allocated bool, release func([]byte) error) *SharedMemory {
	return &SharedMemory{
		id:        nextSharedMemoryID.Add(1),
		buffer:    buffer,
		flags:     flags,
		allocated: allocated,
		release:   release,
	}
}
