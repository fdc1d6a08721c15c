// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package param

import (
	"fmt"
	"strings"
)

// Slots is the number of parameter slots of an operation.
const Slots = 4

const (
	nibbleBits = 4
	nibbleMask = 0xf
)

// Types is the packed form of four slot tags: slot i lives at bits [4i, 4i+4).
// Only the low 16 bits are significant.
type Types uint32

// Nibble returns the raw four-bit tag of slot i.
func (t Types) Nibble(i int) uint32 {
	return (uint32(t) >> (nibbleBits * uint(i))) & nibbleMask
}

// String renders the packed word the way it appears on the wire.
func (t Types) String() string {
	return fmt.Sprintf("0x%04x", uint32(t))
}

// Set is the closed table of tags one side of the boundary recognizes.
type Set[T Tag] struct {
	name  string
	table [nibbleMask + 1]T
	known uint16
}

// NewSet builds the discriminant table of a side. The zero tag must be the
// side's "unused" tag.
func NewSet[T Tag](name string, tags ...T) *Set[T] {
	s := &Set[T]{name: name}

	for _, tag := range tags {
		if uint32(tag) > nibbleMask {
			panic(fmt.Sprintf("param: %s tag %d does not fit in a nibble", name, uint32(tag)))
		}

		s.table[uint32(tag)] = tag
		s.known |= 1 << uint32(tag)
	}

	return s
}

// Name returns the name of the side owning the set.
func (s *Set[T]) Name() string {
	return s.name
}

// Recognizes reports whether nibble is one of the set's discriminants.
func (s *Set[T]) Recognizes(nibble uint32) bool {
	return nibble <= nibbleMask && s.known&(1<<nibble) != 0
}

// Decode maps a nibble to its tag. Unrecognized nibbles decode to the zero
// ("unused") tag; callers that want to reject them use Recognizes or
// Unrecognized.
func (s *Set[T]) Decode(nibble uint32) T {
	if !s.Recognizes(nibble) {
		var none T

		return none
	}

	return s.table[nibble]
}

// Pack folds four tags into one word: p0 | p1<<4 | p2<<8 | p3<<12.
func (s *Set[T]) Pack(p0, p1, p2, p3 T) Types {
	return s.PackArray([Slots]T{p0, p1, p2, p3})
}

// PackArray is Pack over an array.
func (s *Set[T]) PackArray(tags [Slots]T) Types {
	var packed uint32

	for i, tag := range tags {
		packed |= uint32(tag) << (nibbleBits * uint(i))
	}

	return Types(packed)
}

// Unpack splits a packed word into four tags. Bits above the low 16 are
// ignored and unrecognized nibbles decode to the zero tag, so decoding never
// fails but is lossy on malformed input.
func (s *Set[T]) Unpack(packed Types) [Slots]T {
	var tags [Slots]T

	for i := range Slots {
		tags[i] = s.Decode(packed.Nibble(i))
	}

	return tags
}

// Unrecognized returns the indices of the slots whose nibble is not part of
// the set.
func (s *Set[T]) Unrecognized(packed Types) []int {
	var slots []int

	for i := range Slots {
		if !s.Recognizes(packed.Nibble(i)) {
			slots = append(slots, i)
		}
	}

	return slots
}

// Format renders four tags as "(a, b, c, d)".
func (s *Set[T]) Format(tags [Slots]T) string {
	names := make([]string, 0, Slots)

	for _, tag := range tags {
		names = append(names, tag.String())
	}

	return "(" + strings.Join(names, ", ") + ")"
}
