// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package utee

import (
	"github.com/siderolabs/go-optee/pkg/param"
)

// ParamType tells which shape a parameter slot received by a trusted
// application holds. Only temporary memory references exist on this side:
// registered references reach the application as plain memory.
type ParamType uint32

// Parameter types.
const (
	ParamTypeNone         ParamType = 0x0
	ParamTypeValueInput   ParamType = 0x1
	ParamTypeValueOutput  ParamType = 0x2
	ParamTypeValueInout   ParamType = 0x3
	ParamTypeMemrefInput  ParamType = 0x5
	ParamTypeMemrefOutput ParamType = 0x6
	ParamTypeMemrefInout  ParamType = 0x7
)

var paramTypeNames = [...]string{
	ParamTypeNone:         "None",
	ParamTypeValueInput:   "ValueInput",
	ParamTypeValueOutput:  "ValueOutput",
	ParamTypeValueInout:   "ValueInout",
	ParamTypeMemrefInput:  "MemrefInput",
	ParamTypeMemrefOutput: "MemrefOutput",
	ParamTypeMemrefInout:  "MemrefInout",
}

var paramTypes = param.NewSet("trusted application",
	ParamTypeNone,
	ParamTypeValueInput,
	ParamTypeValueOutput,
	ParamTypeValueInout,
	ParamTypeMemrefInput,
	ParamTypeMemrefOutput,
	ParamTypeMemrefInout,
)

// ParamTypeFromUint32 decodes a single tag; unknown values decode to ParamTypeNone.
func ParamTypeFromUint32(v uint32) ParamType {
	if v > 0xf {
		return ParamTypeNone
	}

	return paramTypes.Decode(v)
}

// String returns the name of the parameter type.
func (t ParamType) String() string {
	if int(t) < len(paramTypeNames) && paramTypeNames[t] != "" {
		return paramTypeNames[t]
	}

	return "Unknown"
}

// Class returns the slot shape the type selects.
func (t ParamType) Class() param.Class {
	switch t {
	case ParamTypeValueInput, ParamTypeValueOutput, ParamTypeValueInout:
		return param.ClassValue
	case ParamTypeMemrefInput, ParamTypeMemrefOutput, ParamTypeMemrefInout:
		return param.ClassTempMemref
	case ParamTypeNone:
	}

	return param.ClassNone
}

// Direction returns the data flow of the type.
func (t ParamType) Direction() param.Direction {
	if t.Class() == param.ClassNone {
		return param.DirNone
	}

	return param.Direction(t & 0x3)
}

// ParamTypes is the packed form of the four parameter types.
type ParamTypes param.Types

// NewParamTypes packs four parameter types.
func NewParamTypes(p0, p1, p2, p3 ParamType) ParamTypes {
	return ParamTypes(paramTypes.Pack(p0, p1, p2, p3))
}

// Flags unpacks the four parameter types. Nibbles that are not trusted
// application parameter types come back as ParamTypeNone.
func (t ParamTypes) Flags() (ParamType, ParamType, ParamType, ParamType) {
	f := t.Array()

	return f[0], f[1], f[2], f[3]
}

// Array is Flags as an array.
func (t ParamTypes) Array() [param.Slots]ParamType {
	return paramTypes.Unpack(param.Types(t))
}

// Unrecognized returns the slots whose nibble is not a trusted application
// parameter type.
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
