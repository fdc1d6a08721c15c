// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package param_test

import (
	"strconv"

	"github.com/siderolabs/go-optee/pkg/param"
)

// kind is a tag set mirroring the client side: values, temporary and
// registered references.
type kind uint32

const (
	kindNone        kind = 0
	kindValueIn     kind = 1
	kindValueOut    kind = 2
	kindValueInout  kind = 3
	kindMemrefIn    kind = 5
	kindMemrefOut   kind = 6
	kindMemrefInout kind = 7
	kindWhole       kind = 0xc
	kindPartialIn   kind = 0xd
)

func (k kind) Class() param.Class {
	switch k {
	case kindValueIn, kindValueOut, kindValueInout:
		return param.ClassValue
	case kindMemrefIn, kindMemrefOut, kindMemrefInout:
		return param.ClassTempMemref
	case kindWhole, kindPartialIn:
		return param.ClassRegisteredMemref
	}

	return param.ClassNone
}

func (k kind) Direction() param.Direction {
	if k == kindWhole {
		return param.DirInout
	}

	return param.Direction(k & 3)
}

func (k kind) String() string {
	return "kind" + strconv.Itoa(int(k))
}

var kinds = param.NewSet("test", kindNone, kindValueIn, kindValueOut, kindValueInout,
	kindMemrefIn, kindMemrefOut, kindMemrefInout, kindWhole, kindPartialIn)

var (
	_ param.Narrower[kind] = param.Param[kind]{}
	_ param.Narrower[kind] = (*param.Owned[kind])(nil)
)

type block struct {
	data []byte
}

func (b *block) ID() uint64 {
	return 42
}

func (b *block) Bytes() []byte {
	return b.data
}

type encoder struct {
	tag kind
	raw param.Raw
}

func (e encoder) Type() kind {
	return e.tag
}

func (e encoder) Encode() param.Raw {
	return e.raw
}
