package backend_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pirate-wallet/keystore/internal/backend"
	"github.com/pirate-wallet/keystore/internal/protect"
	"github.com/pirate-wallet/keystore/krypto"
)

func newFileStoreAt(t *testing.T, dir string) backend.Backend {
	t.Helper()
	p, err := protect.NewAEAD(bytes.Repeat([]byte{0x33}, krypto.KeySize))
	if err != nil {
		t.Fatalf("NewAEAD: %v", err)
	}
	return backend.NewFileStore(dir, p)
}

func TestFileStoreLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "PirateWallet", "keystore")
	b := newFileStoreAt(t, dir)

	if err := b.Store("abc", []byte("blob"), testLabel); err != nil {
		t.Fatalf("Store: %v", err)
	}

	// One file per identifier, named key_<hex(id)>.bin.
	path := filepath.Join(dir, "key_616263.bin")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected keystore file at %q: %v", path, err)
	}
	if bytes.Contains(data, []byte("blob")) {
		t.Fatal("keystore file contains unprotected plaintext")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read keystore dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("keystore dir holds %d entries, want 1", len(entries))
	}
}

func TestFileStoreLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	b := newFileStoreAt(t, dir)

	for i := 0; i < 3; i++ {
		if err := b.Store("id", []byte{byte(i + 1)}, testLabel); err != nil {
			t.Fatalf("Store #%d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read keystore dir: %v", err)
	}
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".tmp" {
			t.Fatalf("stale temp file left behind: %s", entry.Name())
		}
	}
	if len(entries) != 1 {
		t.Fatalf("keystore dir holds %d entries, want 1", len(entries))
	}
}

func TestFileStoreCreatesDirectoryOnDemand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deeper", "keystore")
	b := newFileStoreAt(t, dir)

	if err := b.Store("id", []byte{0x01}, testLabel); err != nil {
		t.Fatalf("Store into missing directory: %v", err)
	}
	got, err := b.Retrieve("id")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01}) {
		t.Fatalf("Retrieve = %v, want [1]", got)
	}
}

func TestFileStoreSurfacesCorruptCiphertext(t *testing.T) {
	dir := t.TempDir()
	b := newFileStoreAt(t, dir)

	if err := b.Store("abc", []byte("blob"), testLabel); err != nil {
		t.Fatalf("Store: %v", err)
	}
	path := filepath.Join(dir, "key_616263.bin")
	if err := os.WriteFile(path, []byte("corrupted beyond recognition"), 0o600); err != nil {
		t.Fatalf("corrupt keystore file: %v", err)
	}

	if _, err := b.Retrieve("abc"); err == nil {
		t.Fatal("Retrieve of corrupt file succeeded, want protection error")
	}
}

func TestFileStoreRestrictsFilePermissions(t *testing.T) {
	dir := t.TempDir()
	b := newFileStoreAt(t, dir)

	if err := b.Store("abc", []byte("blob"), testLabel); err != nil {
		t.Fatalf("Store: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "key_616263.bin"))
	if err != nil {
		t.Fatalf("stat keystore file: %v", err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Fatalf("keystore file permissions too open: %o", perm)
	}
}
