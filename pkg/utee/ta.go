// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package utee

import (
	"context"
)

// TrustedApplication is a trusted application as seen by the environment
// hosting it: the header plus the instance entry points.
type TrustedApplication interface {
	// Header describes the application.
	Header() Header
	// Create is called when an instance is created, before its first session.
	Create(ctx context.Context) error
	// Destroy is called when the instance is torn down.
	Destroy(ctx context.Context)
	// OpenSession opens a session. Outputs written through params reach the
	// client even when the call fails.
	OpenSession(ctx context.Context, params Parameters) (SessionHandler, error)
}

// CommandInvoker runs commands against decoded parameters.
type CommandInvoker interface {
	// InvokeCommand runs command. Outputs written through params reach the
	// client even when the call fails.
	InvokeCommand(ctx context.Context, command uint32, params Parameters) error
}

// SessionHandler serves one session.
type SessionHandler interface {
	CommandInvoker
	// CloseSession is called once, when the client closes the session.
	CloseSession(ctx context.Context)
}
