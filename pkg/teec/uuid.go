// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package teec

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// UUID identifies a trusted application, laid out like TEEC_UUID.
type UUID struct {
	TimeLow          uint32
	TimeMid          uint16
	TimeHiAndVersion uint16
	ClockSeqAndNode  [8]byte
}

// ParseUUID parses the textual form of a UUID.
func ParseUUID(s string) (UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid trusted application UUID %q: %w", s, err)
	}

	return UUIDFrom(u), nil
}

// MustParseUUID is ParseUUID for constants; it panics on malformed input.
func MustParseUUID(s string) UUID {
	u, err := ParseUUID(s)
	if err != nil {
		panic(err)
	}

	return u
}

// UUIDFrom converts from the RFC 4122 byte form.
func UUIDFrom(u uuid.UUID) UUID {
	var out UUID

	out.TimeLow = binary.BigEndian.Uint32(u[0:4])
	out.TimeMid = binary.BigEndian.Uint16(u[4:6])
	out.TimeHiAndVersion = binary.BigEndian.Uint16(u[6:8])
	copy(out.ClockSeqAndNode[:], u[8:16])

	return out
}

// UUID converts to the RFC 4122 byte form.
func (u UUID) UUID() uuid.UUID {
	var out uuid.UUID

	binary.BigEndian.PutUint32(out[0:4], u.TimeLow)
	binary.BigEndian.PutUint16(out[4:6], u.TimeMid)
	binary.BigEndian.PutUint16(out[6:8], u.TimeHiAndVersion)
	copy(out[8:16], u.ClockSeqAndNode[:])

	return out
}

// String returns the canonical textual form.
func (u UUID) String() string {
	return u.UUID().String()
}
