//go:build windows

package backend

import "github.com/pirate-wallet/keystore/internal/protect"

// Open returns the Windows default: protected files under the APPDATA
// profile, encrypted with the per-user data protection API.
func Open(cfg Config) (Backend, error) {
	return NewFileStore(cfg.dir(), protect.NewDPAPI()), nil
}
