package protect

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pirate-wallet/keystore/krypto"
)

// LoadOrCreateKeyfile returns the 32-byte file key stored at path,
// generating and persisting a fresh one on first use. The keyfile is
// written atomically with 0600 permissions; two processes racing the
// first call both end up reading a complete keyfile.
func LoadOrCreateKeyfile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("keyfile path is required")
	}

	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != krypto.KeySize {
			return nil, fmt.Errorf("keyfile %s has invalid length %d", path, len(key))
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read keyfile: %w", err)
	}

	key = make([]byte, krypto.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate file key: %w", err)
	}

	if err := writeKeyfile(path, key); err != nil {
		// Lost the creation race: another process wrote it first.
		if existing, readErr := os.ReadFile(path); readErr == nil && len(existing) == krypto.KeySize {
			return existing, nil
		}
		return nil, err
	}
	return key, nil
}

func writeKeyfile(path string, key []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create keyfile directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "filekey-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp keyfile: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(key); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp keyfile: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp keyfile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp keyfile: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace keyfile: %w", err)
	}
	return nil
}
