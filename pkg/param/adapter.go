// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package param

// Narrower is the contract shared by borrowed and owned parameters: report
// the tag and narrow to a typed view after checking it.
type Narrower[T Tag] interface {
	Type() T
	AsValue() (ValueView[T], error)
	AsMemref() (MemrefView[T], error)
}

// Param binds a tag to a slot it does not own. Writes through its views land
// in that slot, so they are visible to the slot's owner and outlive the call.
type Param[T Tag] struct {
	raw *Raw
	tag T
}

// Bind reinterprets raw according to tag.
func Bind[T Tag](raw *Raw, tag T) Param[T] {
	return Param[T]{raw: raw, tag: tag}
}

// Type returns the slot's tag.
func (p Param[T]) Type() T {
	return p.tag
}

// Raw returns the bound slot.
func (p Param[T]) Raw() *Raw {
	return p.raw
}

// AsValue narrows to the value shape.
func (p Param[T]) AsValue() (ValueView[T], error) {
	if p.tag.Class() != ClassValue {
		return ValueView[T]{}, mismatch(p.tag, "value")
	}

	return ValueView[T]{v: &p.raw.value, tag: p.tag}, nil
}

// AsMemref narrows to the referenced memory, temporary or registered.
func (p Param[T]) AsMemref() (MemrefView[T], error) {
	if !p.tag.Class().IsMemref() {
		return MemrefView[T]{}, mismatch(p.tag, "memory reference")
	}

	return MemrefView[T]{raw: p.raw, tag: p.tag}, nil
}

// AsRegistered narrows to the registration of a registered reference.
func (p Param[T]) AsRegistered() (RegisteredView[T], error) {
	if p.tag.Class() != ClassRegisteredMemref {
		return RegisteredView[T]{}, mismatch(p.tag, "registered memory reference")
	}

	return RegisteredView[T]{reg: &p.raw.registered, tag: p.tag}, nil
}

// Owned is a parameter that owns its slot, used to materialize a fresh
// encoding rather than reinterpret a received one.
type Owned[T Tag] struct {
	raw Raw
	tag T
}

// OwnBytes builds a memory reference slot pointing at b's storage. b must
// outlive every use of the parameter. tag must be of the temporary memory
// reference class.
func OwnBytes[T Tag](b []byte, tag T) (*Owned[T], error) {
	if tag.Class() != ClassTempMemref {
		return nil, ErrBadParameters
	}

	buf, err := NewBuffer(b)
	if err != nil {
		return nil, err
	}

	return &Owned[T]{raw: RawMemref(buf), tag: tag}, nil
}

// OwnValues builds a value slot. tag must be of the value class.
func OwnValues[T Tag](a, b uint32, tag T) (*Owned[T], error) {
	if tag.Class() != ClassValue {
		return nil, ErrBadParameters
	}

	return &Owned[T]{raw: RawValue(a, b), tag: tag}, nil
}

// Param borrows the owned slot.
func (o *Owned[T]) Param() Param[T] {
	return Bind(&o.raw, o.tag)
}

// Type returns the slot's tag.
func (o *Owned[T]) Type() T {
	return o.tag
}

// Raw returns the owned slot.
func (o *Owned[T]) Raw() *Raw {
	return &o.raw
}

// AsValue narrows to the value shape.
func (o *Owned[T]) AsValue() (ValueView[T], error) {
	return o.Param().AsValue()
}

// AsMemref narrows to the referenced memory.
func (o *Owned[T]) AsMemref() (MemrefView[T], error) {
	return o.Param().AsMemref()
}
