// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package teec

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// allocate maps anonymous shared memory, which lives outside the Go heap and
// so keeps its address for as long as it is registered.
func allocate(size int) ([]byte, func([]byte) error, error) {
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to mmap shared memory of %d bytes: %w", size, err)
	}

	return mem, unix.Munmap, nil
}
