// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content subtype the protocol's messages are exchanged
// under.
const CodecName = "optee"

type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(message)
	if !ok {
		return nil, fmt.Errorf("cannot marshal %T", v)
	}

	return m.marshal(nil), nil
}

func (codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(message)
	if !ok {
		return fmt.Errorf("cannot unmarshal into %T", v)
	}

	return m.unmarshal(data)
}

func (codec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(codec{})
}
