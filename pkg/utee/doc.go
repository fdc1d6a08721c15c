// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package utee is the trusted application side of the TEE boundary. It
// reinterprets the four raw slots and the packed types word it receives, in
// place, so everything a command writes back is visible to the caller once
// the command returns.
package utee
