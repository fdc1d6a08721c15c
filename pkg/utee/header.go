// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package utee

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Flags are the instance flags from a trusted application header.
type Flags uint32

// Header flags.
const (
	FlagSingleInstance    Flags = 1 << 2
	FlagMultiSession      Flags = 1 << 3
	FlagInstanceKeepAlive Flags = 1 << 4
	FlagSecureDataPath    Flags = 1 << 5
	FlagRemapSupport      Flags = 1 << 6
	FlagCacheMaintenance  Flags = 1 << 7
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagSingleInstance, "single-instance"},
	{FlagMultiSession, "multi-session"},
	{FlagInstanceKeepAlive, "keep-alive"},
	{FlagSecureDataPath, "secure-data-path"},
	{FlagRemapSupport, "remap"},
	{FlagCacheMaintenance, "cache-maintenance"},
}

// String lists the set flags.
func (f Flags) String() string {
	var names []string

	for _, n := range flagNames {
		if f&n.flag != 0 {
			names = append(names, n.name)
		}
	}

	if len(names) == 0 {
		return "none"
	}

	return strings.Join(names, "|")
}

// Standard property names.
const (
	PropSingleInstance = "gpd.ta.singleInstance"
	PropMultiSession   = "gpd.ta.multiSession"
	PropKeepAlive      = "gpd.ta.instanceKeepAlive"
	PropDataSize       = "gpd.ta.dataSize"
	PropStackSize      = "gpd.ta.stackSize"
	PropVersion        = "gpd.ta.version"
	PropDescription    = "gpd.ta.description"
	PropAppID          = "gpd.ta.appID"
)

// Header describes a trusted application to the environment hosting it.
type Header struct {
	UUID        uuid.UUID
	Flags       Flags
	StackSize   uint32
	DataSize    uint32
	Version     string
	Description string
}

// Properties returns the standard properties derived from the header.
func (h Header) Properties() Properties {
	return Properties{
		PropAppID:          h.UUID,
		PropSingleInstance: h.Flags&FlagSingleInstance != 0,
		PropMultiSession:   h.Flags&FlagMultiSession != 0,
		PropKeepAlive:      h.Flags&FlagInstanceKeepAlive != 0,
		PropDataSize:       h.DataSize,
		PropStackSize:      h.StackSize,
		PropVersion:        h.Version,
		PropDescription:    h.Description,
	}
}

// Properties are the named properties of a trusted application.
type Properties map[string]any

// Bool looks up a boolean property.
func (p Properties) Bool(name string) (bool, error) {
	return lookup[bool](p, name)
}

// Uint32 looks up an integer property.
func (p Properties) Uint32(name string) (uint32, error) {
	return lookup[uint32](p, name)
}

// String looks up a string property.
func (p Properties) String(name string) (string, error) {
	return lookup[string](p, name)
}

// UUID looks up a UUID property.
func (p Properties) UUID(name string) (uuid.UUID, error) {
	return lookup[uuid.UUID](p, name)
}

func lookup[V any](p Properties, name string) (V, error) {
	var zero V

	raw, ok := p[name]
	if !ok {
		return zero, kindError(ErrorKindItemNotFound, "property %q", name)
	}

	v, ok := raw.(V)
	if !ok {
		return zero, kindError(ErrorKindBadFormat, "property %q is %T, not %T", name, raw, zero)
	}

	return v, nil
}

// Dump renders the properties one per line, sorted by name.
func (p Properties) Dump() string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}

	slices.Sort(names)

	var b strings.Builder

	for _, name := range names {
		fmt.Fprintf(&b, "%s: %v\n", name, p[name])
	}

	return b.String()
}
