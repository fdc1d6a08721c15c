// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package version contains variables such as project name, tag and sha. It's a proper alternative to using
// -ldflags '-X ...'.
package version

import (
	_ "embed"
	"fmt"
	"runtime/debug"
	"strings"
)

const siderolabsPrefix = "github.com/siderolabs/"

var (
	// Tag declares project git tag.
	//go:embed data/tag
	Tag string
	// SHA declares project git SHA.
	//go:embed data/sha
	SHA string
	// Name declares project name.
	Name = func() string {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return "go-optee"
		}

		return nameOf(info.Path)
	}()
)

// nameOf extracts the repository name from a siderolabs module path.
func nameOf(path string) string {
	tail, ok := strings.CutPrefix(path, siderolabsPrefix)
	if !ok || tail == "" {
		// We could return a proper full path here, but it could be seen as a privacy violation.
		return "community-project"
	}

	name, _, _ := strings.Cut(tail, "/")

	return name
}

// String describes the build on one line.
func String() string {
	return fmt.Sprintf("%s %s (%s)", Name, strings.TrimSpace(Tag), strings.TrimSpace(SHA))
}
