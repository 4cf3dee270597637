package krypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// SaltLengthBytes is the enforced salt length for Argon2id derivation.
const SaltLengthBytes = 16

// Argon2Params captures tunable parameters for Argon2id. They are written
// into the key backup header so a backup stays readable after defaults
// change.
type Argon2Params struct {
	MemoryMB    uint32
	Time        uint32
	Parallelism uint8
	SaltLen     int
	KeyLen      uint32
}

// DefaultArgon2Params returns the parameters used when deriving a 256-bit
// wrapping key from a passphrase.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		MemoryMB:    64,
		Time:        3,
		Parallelism: 1,
		SaltLen:     SaltLengthBytes,
		KeyLen:      KeySize,
	}
}

// DeriveKeyArgon2id derives a key from a passphrase using Argon2id.
func DeriveKeyArgon2id(passphrase, salt []byte, p Argon2Params) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, errors.New("passphrase is required")
	}
	if len(salt) == 0 {
		return nil, errors.New("salt is required")
	}
	if p.KeyLen == 0 || p.MemoryMB == 0 || p.Time == 0 {
		return nil, errors.New("invalid argon2id parameters")
	}
	if p.Parallelism == 0 {
		p.Parallelism = 1
	}

	memoryKB := p.MemoryMB * 1024
	return argon2.IDKey(passphrase, salt, p.Time, memoryKB, p.Parallelism, p.KeyLen), nil
}

// NewRandomSalt returns a cryptographically secure random salt of n bytes
// (SaltLengthBytes when n is not positive).
func NewRandomSalt(n int) ([]byte, error) {
	if n <= 0 {
		n = SaltLengthBytes
	}
	salt := make([]byte, n)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}
