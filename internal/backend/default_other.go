//go:build !linux && !windows && !darwin

package backend

import (
	"fmt"

	"github.com/pirate-wallet/keystore/internal/protect"
)

// Open returns the fallback for platforms without a native secret store:
// protected files encrypted under a per-user AEAD file key.
func Open(cfg Config) (Backend, error) {
	key, err := protect.LoadOrCreateKeyfile(cfg.keyfilePath())
	if err != nil {
		return nil, fmt.Errorf("load protector key: %w", err)
	}
	p, err := protect.NewAEAD(key)
	if err != nil {
		return nil, fmt.Errorf("init protector: %w", err)
	}
	return NewFileStore(cfg.dir(), p), nil
}
