package backend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pirate-wallet/keystore/internal/keyid"
	"github.com/pirate-wallet/keystore/internal/protect"
)

// appDirName is the per-application directory under the user profile.
const appDirName = "PirateWallet"

// FileStore keeps one protected file per identifier:
//
//	<dir>/key_<hex(identifier)>.bin
//
// containing only the protection-transform ciphertext, no header or
// metadata. The write path is atomic (temp file then rename), so
// concurrent stores against the same identifier leave either the old or
// the new blob on disk, never an interleaved partial write.
type FileStore struct {
	dir       string
	protector protect.Protector
}

// NewFileStore returns a file-backed Backend rooted at dir, protecting
// blobs with p before they reach disk.
func NewFileStore(dir string, p protect.Protector) *FileStore {
	return &FileStore{dir: dir, protector: p}
}

// DefaultDir resolves the platform keystore directory:
// %APPDATA%\PirateWallet\keystore on Windows, $XDG_DATA_HOME (or
// $HOME/.local/share) under PirateWallet/keystore elsewhere. When the
// profile variables are unset it falls back to the OS temp directory.
func DefaultDir() string {
	return filepath.Join(profileDir(), appDirName, "keystore")
}

// DefaultKeyfilePath is where the portable AEAD protector keeps its file
// key, next to (not inside) the keystore directory.
func DefaultKeyfilePath() string {
	return filepath.Join(profileDir(), appDirName, "file.key")
}

func profileDir() string {
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir
		}
		return os.TempDir()
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".local", "share")
	}
	return os.TempDir()
}

func (f *FileStore) path(id string) string {
	return filepath.Join(f.dir, keyid.Filename(id))
}

func (f *FileStore) Store(id string, data []byte, label string) error {
	if len(data) == 0 {
		return protection("store", ErrEmptyData)
	}

	ciphertext, err := f.protector.Protect(data)
	if err != nil {
		return protection("store", fmt.Errorf("protect data: %w", err))
	}

	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return unavailable("store", fmt.Errorf("create keystore directory: %w", err))
	}

	tmp, err := os.CreateTemp(f.dir, "key-*.tmp")
	if err != nil {
		return unavailable("store", fmt.Errorf("create temp file: %w", err))
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(ciphertext); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return unavailable("store", fmt.Errorf("write keystore file: %w", err))
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return unavailable("store", fmt.Errorf("chmod keystore file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return unavailable("store", fmt.Errorf("close keystore file: %w", err))
	}
	if err := os.Rename(tmpPath, f.path(id)); err != nil {
		os.Remove(tmpPath)
		return unavailable("store", fmt.Errorf("replace keystore file: %w", err))
	}
	return nil
}

func (f *FileStore) Retrieve(id string) ([]byte, error) {
	ciphertext, err := os.ReadFile(f.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, unavailable("retrieve", fmt.Errorf("read keystore file: %w", err))
	}

	plaintext, err := f.protector.Unprotect(ciphertext)
	if err != nil {
		return nil, protection("retrieve", fmt.Errorf("unprotect data: %w", err))
	}
	return plaintext, nil
}

func (f *FileStore) Delete(id string) error {
	if err := os.Remove(f.path(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return unavailable("delete", fmt.Errorf("remove keystore file: %w", err))
	}
	return nil
}

func (f *FileStore) Exists(id string) (bool, error) {
	if _, err := os.Stat(f.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, unavailable("exists", fmt.Errorf("stat keystore file: %w", err))
	}
	return true, nil
}
