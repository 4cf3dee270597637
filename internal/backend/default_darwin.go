//go:build darwin

package backend

// Open returns the macOS default: the Keychain backend.
func Open(cfg Config) (Backend, error) {
	return NewKeychain(cfg.service()), nil
}
