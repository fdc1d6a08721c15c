// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package loopback

import (
	"fmt"

	"github.com/siderolabs/go-optee/pkg/param"
	"github.com/siderolabs/go-optee/pkg/teec"
	"github.com/siderolabs/go-optee/pkg/utee"
)

// call is the trusted application's copy of an operation: its own types word
// and slots. Memory references alias the client's memory.
type call struct {
	types utee.ParamTypes
	raws  [param.Slots]param.Raw
}

func (c *call) parameters() utee.Parameters {
	return utee.ParametersFromRaw(&c.raws, c.types.Uint32())
}

// enter translates a client operation into a call. Registered references
// become plain memory references over their window.
func enter(op *teec.Operation) (*call, error) {
	c := &call{}

	if op == nil {
		return c, nil
	}

	var tags [param.Slots]utee.ParamType

	for i, p := range op.Params() {
		typ := p.Type()

		switch typ.Class() {
		case param.ClassNone:
			continue
		case param.ClassValue:
			v, err := p.AsValue()
			if err != nil {
				return nil, err
			}

			c.raws[i] = param.RawValue(v.A(), v.B())
		case param.ClassTempMemref:
			m, err := p.AsMemref()
			if err != nil {
				return nil, err
			}

			c.raws[i] = param.RawMemref(m.Buffer())
		case param.ClassRegisteredMemref:
			m, err := p.AsMemref()
			if err != nil {
				return nil, err
			}

			buf, err := param.NewBuffer(m.Bytes())
			if err != nil {
				return nil, err
			}

			c.raws[i] = param.RawMemref(buf)
		}

		dir, err := teec.SlotDirection(p)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}

		tags[i] = applicationType(typ.Class(), dir)
	}

	c.types = utee.NewParamTypes(tags[0], tags[1], tags[2], tags[3])

	return c, nil
}

func applicationType(class param.Class, dir param.Direction) utee.ParamType {
	switch class {
	case param.ClassValue:
		return utee.ParamType(dir)
	case param.ClassTempMemref, param.ClassRegisteredMemref:
		return utee.ParamType(0x4 | uint32(dir))
	case param.ClassNone:
	}

	return utee.ParamTypeNone
}

// leave writes output values and reported sizes back into the client
// operation. It runs whether or not the application failed, so short buffer
// sizes reach the caller.
func (c *call) leave(op *teec.Operation) {
	if op == nil {
		return
	}

	client := op.Params()
	app := c.parameters()

	for i, typ := range c.types.Array() {
		if !typ.Direction().IsOutput() {
			continue
		}

		switch typ.Class() {
		case param.ClassValue:
			src, err := app.Slot(i).AsValue()
			if err != nil {
				continue
			}

			dst, err := client[i].AsValue()
			if err != nil {
				continue
			}

			dst.SetA(src.A())
			dst.SetB(src.B())
		case param.ClassTempMemref:
			src, err := app.Slot(i).AsMemref()
			if err != nil {
				continue
			}

			dst, err := client[i].AsMemref()
			if err != nil {
				continue
			}

			// a 32-bit size always fits
			_ = dst.SetUpdatedSize(uint64(src.Size()))
		case param.ClassNone, param.ClassRegisteredMemref:
		}
	}
}
