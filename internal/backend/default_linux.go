//go:build linux

package backend

// Open returns the Linux default: the Secret Service backend.
func Open(cfg Config) (Backend, error) {
	return NewSecretStore(cfg.service()), nil
}
