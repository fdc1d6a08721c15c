// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package utee

import (
	"errors"

	"github.com/siderolabs/go-optee/pkg/param"
)

// Parameters are the four parameters a trusted application entry point
// receives, bound in place to the caller's slots.
type Parameters struct {
	slots [param.Slots]Parameter
	types ParamTypes
}

// ParametersFromRaw decodes the packed types once and binds every slot of raws
// to its type. raws stays owned by the caller.
func ParametersFromRaw(raws *[param.Slots]param.Raw, types uint32) Parameters {
	p := Parameters{types: ParamTypes(types)}

	for i, b := range param.Scatter(paramTypes, param.Types(types), raws) {
		p.slots[i] = Parameter{p: b}
	}

	return p
}

// Types returns the packed types word exactly as received, including any
// nibble that decoded to ParamTypeNone.
func (p Parameters) Types() ParamTypes {
	return p.types
}

// Slot returns parameter i. Out of range slots read as unused.
func (p Parameters) Slot(i int) Parameter {
	if i < 0 || i >= param.Slots {
		return Parameter{}
	}

	return p.slots[i]
}

// Expect checks the received types word against the one a command accepts.
// The comparison is on the word as received, so a slot holding an
// unrecognized nibble never matches ParamTypeNone.
func (p Parameters) Expect(p0, p1, p2, p3 ParamType) error {
	want := NewParamTypes(p0, p1, p2, p3)
	if p.types != want {
		return kindError(ErrorKindBadParameters, "parameter types %s, want %s", p.types, want)
	}

	return nil
}

// Parameter is one received parameter. It borrows the caller's slot: writes
// through its views land in that slot.
type Parameter struct {
	p param.Param[ParamType]
}

// NewParameter binds raw to typ.
func NewParameter(raw *param.Raw, typ ParamType) Parameter {
	return Parameter{p: param.Bind(raw, typ)}
}

// Type returns the slot's parameter type.
func (p Parameter) Type() ParamType {
	return p.p.Type()
}

// Raw returns the bound slot.
func (p Parameter) Raw() *param.Raw {
	return p.p.Raw()
}

// AsValue narrows to a value parameter, failing with ErrBadParameters for any
// other type.
func (p Parameter) AsValue() (ParamValue, error) {
	v, err := p.p.AsValue()
	if err != nil {
		return ParamValue{}, AsError(err)
	}

	return ParamValue{v: v}, nil
}

// AsMemref narrows to a memory reference parameter, failing with
// ErrBadParameters for any other type.
func (p Parameter) AsMemref() (ParamMemref, error) {
	m, err := p.p.AsMemref()
	if err != nil {
		return ParamMemref{}, AsError(err)
	}

	return ParamMemref{m: m}, nil
}

// OwnedParameter owns its slot. It builds a fresh parameter, for instance to
// call another trusted application, instead of reinterpreting a received one.
type OwnedParameter struct {
	o *param.Owned[ParamType]
}

// FromBytes builds a memory reference to b's storage, without copying. It
// fails with ErrTargetDead when len(b) does not fit the 32-bit size field and
// with ErrBadParameters when typ is not a memory reference type.
func FromBytes(b []byte, typ ParamType) (*OwnedParameter, error) {
	o, err := param.OwnBytes(b, typ)

	switch {
	case errors.Is(err, param.ErrBadParameters):
		return nil, kindError(ErrorKindBadParameters, "%s is not a memory reference type", typ)
	case err != nil:
		return nil, kindError(ErrorKindTargetDead, "memory reference of %d bytes", len(b))
	}

	return &OwnedParameter{o: o}, nil
}

// FromValues builds a value parameter. typ must be a value type.
func FromValues(a, b uint32, typ ParamType) (*OwnedParameter, error) {
	o, err := param.OwnValues(a, b, typ)
	if err != nil {
		return nil, kindError(ErrorKindBadParameters, "%s is not a value type", typ)
	}

	return &OwnedParameter{o: o}, nil
}

// Type returns the parameter type.
func (o *OwnedParameter) Type() ParamType {
	return o.o.Type()
}

// Raw returns the owned slot.
func (o *OwnedParameter) Raw() *param.Raw {
	return o.o.Raw()
}

// Encode returns a copy of the owned slot.
func (o *OwnedParameter) Encode() param.Raw {
	return *o.o.Raw()
}

// Parameter borrows the owned slot.
func (o *OwnedParameter) Parameter() Parameter {
	return Parameter{p: o.o.Param()}
}

// AsValue narrows to a value parameter.
func (o *OwnedParameter) AsValue() (ParamValue, error) {
	return o.Parameter().AsValue()
}

// AsMemref narrows to a memory reference parameter.
func (o *OwnedParameter) AsMemref() (ParamMemref, error) {
	return o.Parameter().AsMemref()
}

// Gather encodes up to four owned parameters into a packed types word and four
// slots; nil parameters are unused slots.
func Gather(p0, p1, p2, p3 *OwnedParameter) (ParamTypes, [param.Slots]param.Raw) {
	var in [param.Slots]param.Encoder[ParamType]

	for i, p := range [param.Slots]*OwnedParameter{p0, p1, p2, p3} {
		if p != nil {
			in[i] = p
		}
	}

	types, raws := param.Gather(paramTypes, in)

	return ParamTypes(types), raws
}

// ParamValue is a live handle on a value parameter.
type ParamValue struct {
	v param.ValueView[ParamType]
}

// Type returns the parameter type.
func (p ParamValue) Type() ParamType {
	return p.v.Type()
}

// A returns the first value.
func (p ParamValue) A() uint32 {
	return p.v.A()
}

// B returns the second value.
func (p ParamValue) B() uint32 {
	return p.v.B()
}

// SetA writes the first value back to the caller.
func (p ParamValue) SetA(a uint32) {
	p.v.SetA(a)
}

// SetB writes the second value back to the caller.
func (p ParamValue) SetB(b uint32) {
	p.v.SetB(b)
}

// ParamMemref is a live handle on a memory reference parameter.
type ParamMemref struct {
	m param.MemrefView[ParamType]
}

// Type returns the parameter type.
func (p ParamMemref) Type() ParamType {
	return p.m.Type()
}

// Buffer returns the referenced memory, aliased, limited to the reported size.
func (p ParamMemref) Buffer() []byte {
	return p.m.Bytes()
}

// Size returns the reported size.
func (p ParamMemref) Size() uint32 {
	return uint32(p.m.Size())
}

// SetUpdatedSize changes the size reported back to the caller without
// touching the memory. Reporting more than the buffer holds, together with
// ErrShortBuffer, tells the caller how much memory to supply.
func (p ParamMemref) SetUpdatedSize(size uint32) {
	// a 32-bit size always fits
	_ = p.m.SetUpdatedSize(uint64(size))
}
