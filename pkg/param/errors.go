// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package param

import "errors"

var (
	// ErrBadParameters is returned when a slot is narrowed to a view whose
	// class does not match the slot's tag.
	ErrBadParameters = errors.New("bad parameters")

	// ErrSizeOverflow is returned when a buffer length does not fit the
	// protocol's 32-bit size field. It is fatal for the parameter being built.
	ErrSizeOverflow = errors.New("buffer length overflows the 32-bit size field")
)
