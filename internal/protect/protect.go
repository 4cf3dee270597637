// Package protect wraps the platform's user-scoped encrypt/decrypt
// primitive behind a single interface. The keystore treats the transform
// as opaque: whatever Protect returns is exactly what lands on disk, and
// Unprotect must accept exactly those bytes back.
package protect

import "errors"

// ErrEmptyInput is returned when a transform is asked to process zero
// bytes. Both transforms reject this so an empty secret can never be
// silently persisted.
var ErrEmptyInput = errors.New("input data is empty")

// Protector is the session/user-scoped protection transform applied by
// the protected-file backend before anything touches disk.
type Protector interface {
	Protect(plaintext []byte) ([]byte, error)
	Unprotect(ciphertext []byte) ([]byte, error)
}
