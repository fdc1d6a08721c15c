// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"fmt"

	"github.com/siderolabs/go-optee/pkg/param"
	"github.com/siderolabs/go-optee/pkg/teec"
)

// temporaryType is the temporary reference type of direction dir; every
// memory reference travels as one.
func temporaryType(dir param.Direction) teec.ParamType {
	return teec.ParamType(0x4 | uint32(dir))
}

// encodeOperation copies the inputs of op into a wire operation.
func encodeOperation(op *teec.Operation) (*operation, error) {
	if op == nil {
		return nil, nil //nolint:nilnil
	}

	w := &operation{}

	for i, p := range op.Params() {
		s := &w.slots[i]

		switch p.Type().Class() {
		case param.ClassNone:
		case param.ClassValue:
			v, err := p.AsValue()
			if err != nil {
				return nil, err
			}

			s.typ, s.a, s.b = uint32(p.Type()), v.A(), v.B()
		case param.ClassTempMemref, param.ClassRegisteredMemref:
			dir, err := teec.SlotDirection(p)
			if err != nil {
				return nil, err
			}

			m, err := p.AsMemref()
			if err != nil {
				return nil, err
			}

			window := m.Bytes()

			s.typ = uint32(temporaryType(dir))
			s.size = uint64(len(window))

			if dir.IsInput() {
				s.data = window
			}
		}
	}

	return w, nil
}

// applyOperation writes the outputs carried by w back into op.
func applyOperation(op *teec.Operation, w *operation) error {
	if op == nil || w == nil {
		return nil
	}

	for i, p := range op.Params() {
		dir, err := teec.SlotDirection(p)
		if err != nil || !dir.IsOutput() {
			continue
		}

		s := w.slots[i]

		switch p.Type().Class() {
		case param.ClassValue:
			v, err := p.AsValue()
			if err != nil {
				return err
			}

			v.SetA(s.a)
			v.SetB(s.b)
		case param.ClassTempMemref, param.ClassRegisteredMemref:
			m, err := p.AsMemref()
			if err != nil {
				return err
			}

			if s.size > param.MaxSize {
				return fmt.Errorf("%w: slot %d: reported size %d", teec.ErrBadParameters, i, s.size)
			}

			copy(m.Bytes(), s.data)

			if err := m.SetUpdatedSize(s.size); err != nil {
				return err
			}
		case param.ClassNone:
		}
	}

	return nil
}

// decodeOperation rebuilds a client operation from w on the serving side,
// with fresh memory for every reference.
func decodeOperation(w *operation, maxBuffer uint64) (*teec.Operation, error) {
	if w == nil {
		return nil, nil //nolint:nilnil
	}

	var params [param.Slots]teec.Param

	for i, s := range w.slots {
		typ := teec.ParamTypeFromUint32(s.typ)

		switch typ.Class() {
		case param.ClassNone:
		case param.ClassValue:
			v, err := teec.NewParamValue(s.a, s.b, typ)
			if err != nil {
				return nil, err
			}

			params[i] = v
		case param.ClassTempMemref:
			if s.size > maxBuffer || uint64(len(s.data)) > s.size {
				return nil, fmt.Errorf("%w: slot %d: %d bytes of %d", teec.ErrBadParameters, i, len(s.data), s.size)
			}

			buf := make([]byte, s.size)
			copy(buf, s.data)

			ref, err := teec.NewParamTmpRef(buf, typ)
			if err != nil {
				return nil, err
			}

			params[i] = ref
		case param.ClassRegisteredMemref:
			return nil, fmt.Errorf("%w: slot %d: %s cannot cross processes", teec.ErrBadParameters, i, typ)
		}
	}

	return teec.NewOperation(params[0], params[1], params[2], params[3]), nil
}

// encodeOutputs copies the outputs of op into a wire operation.
func encodeOutputs(op *teec.Operation) *operation {
	if op == nil {
		return nil
	}

	w := &operation{}

	for i, p := range op.Params() {
		s := &w.slots[i]
		s.typ = uint32(p.Type())

		if !p.Type().Direction().IsOutput() {
			continue
		}

		switch p.Type().Class() {
		case param.ClassValue:
			v, err := p.AsValue()
			if err != nil {
				continue
			}

			s.a, s.b = v.A(), v.B()
		case param.ClassTempMemref:
			m, err := p.AsMemref()
			if err != nil {
				continue
			}

			s.size = m.Size()
			s.data = m.Bytes()
		case param.ClassNone, param.ClassRegisteredMemref:
		}
	}

	return w
}
