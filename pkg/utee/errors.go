// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package utee

import (
	"errors"
	"fmt"

	"github.com/siderolabs/go-optee/pkg/param"
)

// ErrorKind is a TEE_Result code returned by a trusted application.
type ErrorKind uint32

// Error kinds.
const (
	ErrorKindGeneric          ErrorKind = 0xFFFF0000
	ErrorKindAccessDenied     ErrorKind = 0xFFFF0001
	ErrorKindCancel           ErrorKind = 0xFFFF0002
	ErrorKindAccessConflict   ErrorKind = 0xFFFF0003
	ErrorKindExcessData       ErrorKind = 0xFFFF0004
	ErrorKindBadFormat        ErrorKind = 0xFFFF0005
	ErrorKindBadParameters    ErrorKind = 0xFFFF0006
	ErrorKindBadState         ErrorKind = 0xFFFF0007
	ErrorKindItemNotFound     ErrorKind = 0xFFFF0008
	ErrorKindNotImplemented   ErrorKind = 0xFFFF0009
	ErrorKindNotSupported     ErrorKind = 0xFFFF000A
	ErrorKindNoData           ErrorKind = 0xFFFF000B
	ErrorKindOutOfMemory      ErrorKind = 0xFFFF000C
	ErrorKindBusy             ErrorKind = 0xFFFF000D
	ErrorKindCommunication    ErrorKind = 0xFFFF000E
	ErrorKindSecurity         ErrorKind = 0xFFFF000F
	ErrorKindShortBuffer      ErrorKind = 0xFFFF0010
	ErrorKindExternalCancel   ErrorKind = 0xFFFF0011
	ErrorKindOverflow         ErrorKind = 0xFFFF300F
	ErrorKindTargetDead       ErrorKind = 0xFFFF3024
	ErrorKindStorageNoSpace   ErrorKind = 0xFFFF3041
	ErrorKindMacInvalid       ErrorKind = 0xFFFF3071
	ErrorKindSignatureInvalid ErrorKind = 0xFFFF3072
	ErrorKindTimeNotSet       ErrorKind = 0xFFFF5000
	ErrorKindTimeNeedsReset   ErrorKind = 0xFFFF5001
)

var errorKindNames = map[ErrorKind]string{
	ErrorKindGeneric:          "generic error",
	ErrorKindAccessDenied:     "access denied",
	ErrorKindCancel:           "operation cancelled",
	ErrorKindAccessConflict:   "access conflict",
	ErrorKindExcessData:       "excess data",
	ErrorKindBadFormat:        "bad format",
	ErrorKindBadParameters:    "bad parameters",
	ErrorKindBadState:         "bad state",
	ErrorKindItemNotFound:     "item not found",
	ErrorKindNotImplemented:   "not implemented",
	ErrorKindNotSupported:     "not supported",
	ErrorKindNoData:           "no data",
	ErrorKindOutOfMemory:      "out of memory",
	ErrorKindBusy:             "busy",
	ErrorKindCommunication:    "communication error",
	ErrorKindSecurity:         "security error",
	ErrorKindShortBuffer:      "short buffer",
	ErrorKindExternalCancel:   "external cancel",
	ErrorKindOverflow:         "overflow",
	ErrorKindTargetDead:       "target dead",
	ErrorKindStorageNoSpace:   "storage no space",
	ErrorKindMacInvalid:       "mac invalid",
	ErrorKindSignatureInvalid: "signature invalid",
	ErrorKindTimeNotSet:       "time not set",
	ErrorKindTimeNeedsReset:   "time needs reset",
}

// String describes the kind.
func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("unknown error 0x%08x", uint32(k))
}

// Error is a failure reported by a trusted application.
type Error struct {
	Kind ErrorKind
}

// NewError builds an Error.
func NewError(kind ErrorKind) *Error {
	return &Error{Kind: kind}
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (0x%08x)", e.Kind, uint32(e.Kind))
}

// Raw returns the TEE_Result code.
func (e *Error) Raw() uint32 {
	return uint32(e.Kind)
}

// Is matches another *Error by kind, and the marshalling sentinels of package
// param by their equivalent kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}

	switch {
	case errors.Is(target, param.ErrBadParameters):
		return e.Kind == ErrorKindBadParameters
	case errors.Is(target, param.ErrSizeOverflow):
		return e.Kind == ErrorKindTargetDead
	}

	return false
}

var (
	// ErrBadParameters matches any error of kind ErrorKindBadParameters.
	ErrBadParameters = NewError(ErrorKindBadParameters)
	// ErrShortBuffer matches any error of kind ErrorKindShortBuffer.
	ErrShortBuffer = NewError(ErrorKindShortBuffer)
	// ErrTargetDead matches any error of kind ErrorKindTargetDead.
	ErrTargetDead = NewError(ErrorKindTargetDead)
	// ErrNotSupported matches any error of kind ErrorKindNotSupported.
	ErrNotSupported = NewError(ErrorKindNotSupported)
	// ErrItemNotFound matches any error of kind ErrorKindItemNotFound.
	ErrItemNotFound = NewError(ErrorKindItemNotFound)
	// ErrBusy matches any error of kind ErrorKindBusy.
	ErrBusy = NewError(ErrorKindBusy)
)

// AsError converts err into an *Error. Marshalling errors keep their kind;
// anything unknown becomes a generic error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, param.ErrBadParameters):
		return NewError(ErrorKindBadParameters)
	case errors.Is(err, param.ErrSizeOverflow):
		return NewError(ErrorKindTargetDead)
	}

	return NewError(ErrorKindGeneric)
}

func kindError(kind ErrorKind, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), NewError(kind))
}
