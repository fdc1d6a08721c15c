// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package teec

import (
	"github.com/siderolabs/go-optee/pkg/param"
)

// ParamType tells which shape a parameter slot of an operation holds.
type ParamType uint32

const (
	// ParamTypeNone marks an unused slot.
	ParamTypeNone ParamType = 0x0
	// ParamTypeValueInput is a pair of values read by the trusted application.
	ParamTypeValueInput ParamType = 0x1
	// ParamTypeValueOutput is a pair of values written by the trusted application.
	ParamTypeValueOutput ParamType = 0x2
	// ParamTypeValueInout is a pair of values read and written back.
	ParamTypeValueInout ParamType = 0x3
	// ParamTypeMemrefTempInput is caller memory registered for the duration of
	// one operation and read by the trusted application.
	ParamTypeMemrefTempInput ParamType = 0x5
	// ParamTypeMemrefTempOutput is caller memory written by the trusted
	// application, which may update the size to ask for a larger buffer.
	ParamTypeMemrefTempOutput ParamType = 0x6
	// ParamTypeMemrefTempInout is caller memory read and written back.
	ParamTypeMemrefTempInout ParamType = 0x7
	// ParamTypeMemrefWhole references the entirety of a registered shared
	// memory block; the direction comes from the block's flags.
	ParamTypeMemrefWhole ParamType = 0xc
	// ParamTypeMemrefPartialInput references part of a registered block, read
	// by the trusted application.
	ParamTypeMemrefPartialInput ParamType = 0xd
	// ParamTypeMemrefPartialOutput references part of a registered block,
	// written by the trusted application.
	ParamTypeMemrefPartialOutput ParamType = 0xe
	// ParamTypeMemrefPartialInout references part of a registered block, read
	// and written back.
	ParamTypeMemrefPartialInout ParamType = 0xf
)

var paramTypeNames = map[ParamType]string{
	ParamTypeNone:                "None",
	ParamTypeValueInput:          "ValueInput",
	ParamTypeValueOutput:         "ValueOutput",
	ParamTypeValueInout:          "ValueInout",
	ParamTypeMemrefTempInput:     "MemrefTempInput",
	ParamTypeMemrefTempOutput:    "MemrefTempOutput",
	ParamTypeMemrefTempInout:     "MemrefTempInout",
	ParamTypeMemrefWhole:         "MemrefWhole",
	ParamTypeMemrefPartialInput:  "MemrefPartialInput",
	ParamTypeMemrefPartialOutput: "MemrefPartialOutput",
	ParamTypeMemrefPartialInout:  "MemrefPartialInout",
}

var paramTypes = param.NewSet("client",
	ParamTypeNone,
	ParamTypeValueInput,
	ParamTypeValueOutput,
	ParamTypeValueInout,
	ParamTypeMemrefTempInput,
	ParamTypeMemrefTempOutput,
	ParamTypeMemrefTempInout,
	ParamTypeMemrefWhole,
	ParamTypeMemrefPartialInput,
	ParamTypeMemrefPartialOutput,
	ParamTypeMemrefPartialInout,
)

// ParamTypeFromUint32 decodes a single tag; unknown values decode to ParamTypeNone.
func ParamTypeFromUint32(v uint32) ParamType {
	if v > 0xf {
		return ParamTypeNone
	}

	return paramTypes.Decode(v)
}

// ParseParamType looks a parameter type up by name.
func ParseParamType(name string) (ParamType, bool) {
	for t, n := range paramTypeNames {
		if n == name {
			return t, true
		}
	}

	return ParamTypeNone, false
}

// String returns the name of the parameter type.
func (t ParamType) String() string {
	if name, ok := paramTypeNames[t]; ok {
		return name
	}

	return "Unknown"
}

// Class returns the slot shape the type selects.
func (t ParamType) Class() param.Class {
	switch t {
	case ParamTypeValueInput, ParamTypeValueOutput, ParamTypeValueInout:
		return param.ClassValue
	case ParamTypeMemrefTempInput, ParamTypeMemrefTempOutput, ParamTypeMemrefTempInout:
		return param.ClassTempMemref
	case ParamTypeMemrefWhole, ParamTypeMemrefPartialInput, ParamTypeMemrefPartialOutput, ParamTypeMemrefPartialInout:
		return param.ClassRegisteredMemref
	case ParamTypeNone:
	}

	return param.ClassNone
}

// Direction returns the data flow of the type. MemrefWhole reports inout;
// the effective direction is given by the flags of the referenced block.
func (t ParamType) Direction() param.Direction {
	switch t.Class() {
	case param.ClassNone:
		return param.DirNone
	case param.ClassRegisteredMemref:
		if t == ParamTypeMemrefWhole {
			return param.DirInout
		}
	case param.ClassValue, param.ClassTempMemref:
	}

	return param.Direction(t & 0x3)
}

// ParamTypes is the packed form of the four parameter types of an operation.
type ParamTypes param.Types

// NewParamTypes packs four parameter types.
func NewParamTypes(p0, p1, p2, p3 ParamType) ParamTypes {
	return ParamTypes(paramTypes.Pack(p0, p1, p2, p3))
}

// ParamTypesFromArray packs four raw type values, the way TEEC_PARAM_TYPES does.
func ParamTypesFromArray(types [param.Slots]uint32) ParamTypes {
	return ParamTypes(types[0] | types[1]<<4 | types[2]<<8 | types[3]<<12)
}

// Flags unpacks the four parameter types. Nibbles that are not client
// parameter types come back as ParamTypeNone.
func (t ParamTypes) Flags() (ParamType, ParamType, ParamType, ParamType) {
	f := paramTypes.Unpack(param.Types(t))

	return f[0], f[1], f[2], f[3]
}

// Array is Flags as an array.
func (t ParamTypes) Array() [param.Slots]ParamType {
	return paramTypes.Unpack(param.Types(t))
}

// Unrecognized returns the slots whose nibble is not a client parameter type.
func (t ParamTypes) Unrecognized() []int {
	return paramTypes.Unrecognized(param.Types(t))
}

// Uint32 returns the packed word.
func (t ParamTypes) Uint32() uint32 {
	return uint32(t)
}

// String lists the four parameter types.
func (t ParamTypes) String() string {
	return param.Types(t).String() + " " + paramTypes.Format(t.Array())
}
