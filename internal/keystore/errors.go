package keystore

import (
	"errors"
	"fmt"
)

// Code is a stable error code carried across the host protocol unchanged.
// Existing callers match on these strings, so they are append-only.
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeKeystore        Code = "KEYSTORE_ERROR"
	CodeSeal            Code = "SEAL_ERROR"
	CodeUnseal          Code = "UNSEAL_ERROR"
	CodeNotImplemented  Code = "NOT_IMPLEMENTED"
)

// Error is the service-boundary error: a stable code for the wire, a
// human-readable detail, and the underlying cause kept via Unwrap so
// platform messages are never discarded.
type Error struct {
	Code   Code
	Detail string
	cause  error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Detail, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// Message renders the detail plus the platform cause, the string a
// transport should put on the wire.
func (e *Error) Message() string {
	if e.cause == nil {
		return e.Detail
	}
	return fmt.Sprintf("%s: %v", e.Detail, e.cause)
}

func newError(code Code, detail string) *Error {
	return &Error{Code: code, Detail: detail}
}

func wrapError(code Code, detail string, cause error) *Error {
	return &Error{Code: code, Detail: detail, cause: cause}
}

// CodeOf extracts the stable code from err, or CodeKeystore when err did
// not originate from this package.
func CodeOf(err error) Code {
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Code
	}
	return CodeKeystore
}
