// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package ta packages the sample trusted applications shipped with teectl.
package ta

import (
	"log/slog"

	"github.com/siderolabs/go-optee/pkg/utee"
)

// Installer is anything trusted applications can be installed into.
type Installer interface {
	Install(app utee.TrustedApplication) error
}

// InstallAll installs every sample application into tee.
func InstallAll(tee Installer, logger *slog.Logger) error {
	for _, app := range []utee.TrustedApplication{
		NewHello(logger.With("ta", "hello")),
		NewReverse(logger.With("ta", "reverse")),
	} {
		if err := tee.Install(app); err != nil {
			return err
		}
	}

	return nil
}
