// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package param

// Encoder is a typed parameter that can produce its slot form.
type Encoder[T Tag] interface {
	Type() T
	Encode() Raw
}

// Gather encodes up to four typed parameters. A nil encoder, or one whose tag
// is of class none, becomes the zero tag with an all-zero slot: there is no
// sparse representation.
func Gather[T Tag](set *Set[T], params [Slots]Encoder[T]) (Types, [Slots]Raw) {
	var (
		tags [Slots]T
		raws [Slots]Raw
	)

	for i, p := range params {
		if p == nil || p.Type().Class() == ClassNone {
			continue
		}

		tags[i] = p.Type()
		raws[i] = p.Encode()
	}

	return set.PackArray(tags), raws
}

// Scatter decodes a received operation in place: the packed word is unpacked
// once and each slot is bound to its own tag.
func Scatter[T Tag](set *Set[T], packed Types, raws *[Slots]Raw) [Slots]Param[T] {
	var params [Slots]Param[T]

	tags := set.Unpack(packed)

	for i := range Slots {
		params[i] = Bind(&raws[i], tags[i])
	}

	return params
}
