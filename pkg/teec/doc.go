// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package teec is the client side of the TEE boundary: it builds operations
// from typed parameters, hands them to a Transport and reads the results back
// through the same slots.
//
// It follows the GlobalPlatform TEE Client API: an operation has four
// parameter slots, each tagged with one of eleven parameter types, and the
// four tags travel packed in a single word next to the slots.
package teec
