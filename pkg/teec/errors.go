// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package teec

import (
	"errors"
	"fmt"

	"github.com/siderolabs/go-optee/pkg/param"
)

// Result is a TEEC_Result return code.
type Result uint32

// Return codes of the client API.
const (
	ResultSuccess        Result = 0x00000000
	ResultGeneric        Result = 0xFFFF0000
	ResultAccessDenied   Result = 0xFFFF0001
	ResultCancel         Result = 0xFFFF0002
	ResultAccessConflict Result = 0xFFFF0003
	ResultExcessData     Result = 0xFFFF0004
	ResultBadFormat      Result = 0xFFFF0005
	ResultBadParameters  Result = 0xFFFF0006
	ResultBadState       Result = 0xFFFF0007
	ResultItemNotFound   Result = 0xFFFF0008
	ResultNotImplemented Result = 0xFFFF0009
	ResultNotSupported   Result = 0xFFFF000A
	ResultNoData         Result = 0xFFFF000B
	ResultOutOfMemory    Result = 0xFFFF000C
	ResultBusy           Result = 0xFFFF000D
	ResultCommunication  Result = 0xFFFF000E
	ResultSecurity       Result = 0xFFFF000F
	ResultShortBuffer    Result = 0xFFFF0010
	ResultExternalCancel Result = 0xFFFF0011
	ResultTargetDead     Result = 0xFFFF3024
)

var resultNames = map[Result]string{
	ResultSuccess:        "success",
	ResultGeneric:        "generic error",
	ResultAccessDenied:   "access denied",
	ResultCancel:         "operation cancelled",
	ResultAccessConflict: "access conflict",
	ResultExcessData:     "excess data",
	ResultBadFormat:      "bad format",
	ResultBadParameters:  "bad parameters",
	ResultBadState:       "bad state",
	ResultItemNotFound:   "item not found",
	ResultNotImplemented: "not implemented",
	ResultNotSupported:   "not supported",
	ResultNoData:         "no data",
	ResultOutOfMemory:    "out of memory",
	ResultBusy:           "busy",
	ResultCommunication:  "communication error",
	ResultSecurity:       "security error",
	ResultShortBuffer:    "short buffer",
	ResultExternalCancel: "external cancel",
	ResultTargetDead:     "target dead",
}

// String describes the code.
func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}

	return fmt.Sprintf("unknown result 0x%08x", uint32(r))
}

// ReturnOrigin tells which layer produced a return code.
type ReturnOrigin uint32

// Return code origins.
const (
	OriginAPI         ReturnOrigin = 0x1
	OriginComms       ReturnOrigin = 0x2
	OriginTEE         ReturnOrigin = 0x3
	OriginTrustedApp  ReturnOrigin = 0x4
	originUnspecified ReturnOrigin = 0x0
)

// String names the origin.
func (o ReturnOrigin) String() string {
	switch o {
	case OriginAPI:
		return "api"
	case OriginComms:
		return "comms"
	case OriginTEE:
		return "tee"
	case OriginTrustedApp:
		return "trusted application"
	case originUnspecified:
	}

	return "unspecified"
}

// Error is a failed call: a return code and the layer it came from.
type Error struct {
	Code   Result
	Origin ReturnOrigin
}

// NewError builds an Error.
func NewError(code Result, origin ReturnOrigin) *Error {
	return &Error{Code: code, Origin: origin}
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (0x%08x, origin %s)", e.Code, uint32(e.Code), e.Origin)
}

// Is matches another *Error by code, and the marshalling sentinels of package
// param by their equivalent code.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Code == e.Code
	}

	switch {
	case errors.Is(target, param.ErrBadParameters):
		return e.Code == ResultBadParameters
	case errors.Is(target, param.ErrSizeOverflow):
		return e.Code == ResultTargetDead
	}

	return false
}

var (
	// ErrBadParameters matches any error carrying ResultBadParameters.
	ErrBadParameters = NewError(ResultBadParameters, OriginAPI)
	// ErrShortBuffer matches any error carrying ResultShortBuffer.
	ErrShortBuffer = NewError(ResultShortBuffer, OriginAPI)
	// ErrTargetDead matches any error carrying ResultTargetDead.
	ErrTargetDead = NewError(ResultTargetDead, OriginAPI)
	// ErrItemNotFound matches any error carrying ResultItemNotFound.
	ErrItemNotFound = NewError(ResultItemNotFound, OriginAPI)
	// ErrBadState matches any error carrying ResultBadState.
	ErrBadState = NewError(ResultBadState, OriginAPI)
	// ErrCommunication matches any error carrying ResultCommunication.
	ErrCommunication = NewError(ResultCommunication, OriginComms)
)

// AsError converts err into an *Error. Marshalling errors become API-origin
// errors; anything unknown becomes a generic error from origin.
func AsError(err error, origin ReturnOrigin) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, param.ErrBadParameters):
		return NewError(ResultBadParameters, OriginAPI)
	case errors.Is(err, param.ErrSizeOverflow):
		return NewError(ResultTargetDead, OriginAPI)
	}

	return NewError(ResultGeneric, origin)
}

func apiError(code Result, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), NewError(code, OriginAPI))
}
