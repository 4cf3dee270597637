package protect

import (
	"errors"
	"fmt"

	"github.com/pirate-wallet/keystore/krypto"
)

// hkdfInfo domain-separates keystore subkeys from any other use of the
// file key.
var hkdfInfo = []byte("keystore.protect.v1")

const saltLen = 16

// AEAD is the portable protection transform: AES-256-GCM keyed by a
// per-user file key, with a fresh HKDF salt per blob so every stored
// secret is encrypted under its own subkey.
//
// Blob layout: salt (16) || nonce (12) || gcm ciphertext.
type AEAD struct {
	key []byte
}

// NewAEAD returns an AEAD protector for the given 32-byte file key.
func NewAEAD(key []byte) (*AEAD, error) {
	if len(key) != krypto.KeySize {
		return nil, fmt.Errorf("protector key must be %d bytes, got %d", krypto.KeySize, len(key))
	}
	copied := make([]byte, len(key))
	copy(copied, key)
	return &AEAD{key: copied}, nil
}

// Protect encrypts plaintext under a fresh per-blob subkey.
func (a *AEAD) Protect(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, ErrEmptyInput
	}

	salt, err := krypto.NewRandomSalt(saltLen)
	if err != nil {
		return nil, fmt.Errorf("protect: %w", err)
	}
	subkey, err := krypto.HKDFSHA256(a.key, salt, hkdfInfo, krypto.KeySize)
	if err != nil {
		return nil, fmt.Errorf("protect: derive subkey: %w", err)
	}

	nonce, ciphertext, err := krypto.EncryptAESGCM(subkey, plaintext, hkdfInfo)
	if err != nil {
		return nil, fmt.Errorf("protect: %w", err)
	}

	out := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// Unprotect reverses Protect. Truncated or tampered blobs fail with an
// error rather than yielding garbage.
func (a *AEAD) Unprotect(blob []byte) ([]byte, error) {
	if len(blob) == 0 {
		return nil, ErrEmptyInput
	}
	if len(blob) <= saltLen+krypto.GCMNonceSize {
		return nil, errors.New("protected blob is truncated")
	}

	salt := blob[:saltLen]
	nonce := blob[saltLen : saltLen+krypto.GCMNonceSize]
	ciphertext := blob[saltLen+krypto.GCMNonceSize:]

	subkey, err := krypto.HKDFSHA256(a.key, salt, hkdfInfo, krypto.KeySize)
	if err != nil {
		return nil, fmt.Errorf("unprotect: derive subkey: %w", err)
	}

	plaintext, err := krypto.DecryptAESGCM(subkey, nonce, ciphertext, hkdfInfo)
	if err != nil {
		return nil, fmt.Errorf("unprotect: %w", err)
	}
	return plaintext, nil
}
