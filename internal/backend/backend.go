// Package backend persists secret blobs using whatever trusted primitive
// the host platform provides. Every implementation satisfies the same
// four-method contract, so the keystore service never branches on the
// platform: the concrete backend is chosen once, at process start, by
// Open.
package backend

import (
	"errors"
	"fmt"
)

// Backend is the capability set every platform strategy implements.
type Backend interface {
	// Store durably persists data under id, overwriting any prior value.
	// Empty data is rejected with a backend error; it is never silently
	// truncated into an empty entry.
	Store(id string, data []byte, label string) error

	// Retrieve returns the stored blob, or (nil, nil) when no value
	// exists for id. An error means I/O or transform failure, never
	// plain absence.
	Retrieve(id string) ([]byte, error)

	// Delete removes the value for id. Deleting an absent id succeeds.
	Delete(id string) error

	// Exists reports presence without exposing the secret value.
	Exists(id string) (bool, error)
}

// Kind classifies a backend failure.
type Kind int

const (
	// KindUnavailable means the storage medium could not be reached,
	// created, or written: no secret-service daemon, unwritable
	// directory, and so on.
	KindUnavailable Kind = iota
	// KindProtection means the protection transform rejected the data:
	// wrong user session, corrupted ciphertext, empty input.
	KindProtection
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindProtection:
		return "protection"
	default:
		return "unknown"
	}
}

// ErrEmptyData is the cause recorded when Store is handed zero bytes.
var ErrEmptyData = errors.New("secret data is empty")

// Error is a backend failure with its classification and the underlying
// platform cause preserved for diagnosis.
type Error struct {
	Kind Kind
	Op   string // "store", "retrieve", "delete", "exists"
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func unavailable(op string, err error) *Error {
	return &Error{Kind: KindUnavailable, Op: op, Err: err}
}

func protection(op string, err error) *Error {
	return &Error{Kind: KindProtection, Op: op, Err: err}
}
