// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package param

// Class is the union shape a tag selects.
type Class uint8

const (
	// ClassNone marks an unused slot.
	ClassNone Class = iota
	// ClassValue selects the pair of 32-bit values.
	ClassValue
	// ClassTempMemref selects a temporary memory reference (pointer and size).
	ClassTempMemref
	// ClassRegisteredMemref selects a reference into a registered shared memory block.
	ClassRegisteredMemref
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassValue:
		return "value"
	case ClassTempMemref:
		return "memref"
	case ClassRegisteredMemref:
		return "registered-memref"
	}

	return "unknown"
}

// IsMemref reports whether the class references memory.
func (c Class) IsMemref() bool {
	return c == ClassTempMemref || c == ClassRegisteredMemref
}

// Direction tells which way data flows through a slot.
type Direction uint8

const (
	// DirNone is the direction of unused slots.
	DirNone Direction = 0
	// DirInput flows from the caller to the callee.
	DirInput Direction = 1 << 0
	// DirOutput flows from the callee back to the caller.
	DirOutput Direction = 1 << 1
	// DirInout flows both ways.
	DirInout = DirInput | DirOutput
)

// IsInput reports whether the callee reads the slot.
func (d Direction) IsInput() bool {
	return d&DirInput != 0
}

// IsOutput reports whether the callee writes the slot back.
func (d Direction) IsOutput() bool {
	return d&DirOutput != 0
}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirNone:
		return "none"
	case DirInput:
		return "input"
	case DirOutput:
		return "output"
	case DirInout:
		return "inout"
	}

	return "unknown"
}

// Tag is a side-specific slot tag. Every discriminant fits in four bits.
type Tag interface {
	~uint32

	Class() Class
	Direction() Direction
	String() string
}
