// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package remote carries TEE client calls over gRPC. The Client implements
// teec.Transport against a remote Server, which serves any local
// teec.Transport.
//
// Memory cannot be shared across processes, so memory references are copied:
// input memory travels with the request, output memory with the response,
// and reported sizes and output values are applied to the caller's operation
// exactly as a local transport would.
package remote
