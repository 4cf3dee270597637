//go:build windows

package protect

import (
	"fmt"

	"github.com/billgraziano/dpapi"
)

// DPAPI protects blobs with the Windows per-user data protection API
// (CryptProtectData / CryptUnprotectData). Ciphertext is bound to the
// logged-in user profile: no interactive prompt is ever shown, and
// decryption under a different account fails.
type DPAPI struct{}

// NewDPAPI returns the Windows data-protection transform.
func NewDPAPI() DPAPI {
	return DPAPI{}
}

// Protect encrypts plaintext under the current user's DPAPI master key.
func (DPAPI) Protect(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, ErrEmptyInput
	}
	out, err := dpapi.EncryptBytes(plaintext)
	if err != nil {
		return nil, fmt.Errorf("CryptProtectData: %w", err)
	}
	return out, nil
}

// Unprotect decrypts DPAPI ciphertext produced by Protect.
func (DPAPI) Unprotect(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, ErrEmptyInput
	}
	out, err := dpapi.DecryptBytes(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("CryptUnprotectData: %w", err)
	}
	return out, nil
}
