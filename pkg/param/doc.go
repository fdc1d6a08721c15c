// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package param is the marshalling core shared by both sides of the TEE
// boundary.
//
// An operation carries four parameter slots and one packed word holding the
// four slot tags, four bits each. The slots are a flat, ABI-defined union: the
// tag alone decides which shape of a slot is meaningful. This package pairs
// every slot with its tag and only hands out typed views after checking the
// tag's class, so the wrong shape of a slot is never read or written.
//
// The client side and the trusted application side recognize different tag
// sets. Both plug their own tag type into the generic Set, Param and Owned
// types defined here.
package param
