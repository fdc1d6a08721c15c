// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package teec

import (
	"github.com/siderolabs/go-optee/pkg/param"
)

// Operation is the value exchanged with the boundary for one call: the packed
// parameter types and four parameter slots, plus the session anchor and the
// started flag, which are carried but not managed here.
type Operation struct {
	started uint32
	types   ParamTypes
	params  [param.Slots]param.Raw
	session *Session

	// keep the caller's parameters, and the memory they reference, reachable
	// until the operation is dropped.
	keep [param.Slots]Param
}

// NewOperation encodes up to four parameters; nil parameters are unused slots.
func NewOperation(p0, p1, p2, p3 Param) *Operation {
	in := [param.Slots]Param{p0, p1, p2, p3}

	types, raws := param.Gather(paramTypes, in)

	return &Operation{
		types:  ParamTypes(types),
		params: raws,
		keep:   in,
	}
}

// ParamTypes returns the packed parameter types.
func (op *Operation) ParamTypes() ParamTypes {
	return op.types
}

// Started reports whether the operation has been handed to a transport.
func (op *Operation) Started() bool {
	return op.started != 0
}

// Session returns the session the operation was last started on. It stays
// nil when opening a session with the operation failed.
func (op *Operation) Session() *Session {
	return op.session
}

// Params decodes the four slots in place. Views write straight into the
// operation, which is how transports report outputs back to the caller.
func (op *Operation) Params() [param.Slots]param.Param[ParamType] {
	return param.Scatter(paramTypes, param.Types(op.types), &op.params)
}

// Param decodes slot i.
func (op *Operation) Param(i int) (param.Param[ParamType], error) {
	if i < 0 || i >= param.Slots {
		return param.Param[ParamType]{}, apiError(ResultBadParameters, "slot %d out of range", i)
	}

	return op.Params()[i], nil
}

// Value reads the value parameter in slot i, including what the trusted
// application wrote back for output and inout types.
func (op *Operation) Value(i int) (ParamValue, error) {
	p, err := op.Param(i)
	if err != nil {
		return ParamValue{}, err
	}

	return ParamValueFromRaw(p)
}

// Buffer returns the memory referenced by slot i, limited to the size the
// trusted application reported.
func (op *Operation) Buffer(i int) ([]byte, error) {
	m, err := op.memref(i)
	if err != nil {
		return nil, err
	}

	return m.Bytes(), nil
}

// Size returns the size reported for the memory reference in slot i. After a
// call failing with ResultShortBuffer it is the size the trusted application
// needs, which may exceed the memory supplied.
func (op *Operation) Size(i int) (uint64, error) {
	m, err := op.memref(i)
	if err != nil {
		return 0, err
	}

	return m.Size(), nil
}

func (op *Operation) memref(i int) (param.MemrefView[ParamType], error) {
	p, err := op.Param(i)
	if err != nil {
		return param.MemrefView[ParamType]{}, err
	}

	m, err := p.AsMemref()
	if err != nil {
		return param.MemrefView[ParamType]{}, AsError(err, OriginAPI)
	}

	return m, nil
}

func (op *Operation) start(s *Session) {
	op.started = 1
	op.session = s
}
