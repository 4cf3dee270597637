package protect_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pirate-wallet/keystore/internal/protect"
	"github.com/pirate-wallet/keystore/krypto"
)

func newTestProtector(t *testing.T) *protect.AEAD {
	t.Helper()
	p, err := protect.NewAEAD(bytes.Repeat([]byte{0x11}, krypto.KeySize))
	if err != nil {
		t.Fatalf("NewAEAD: %v", err)
	}
	return p
}

func TestAEADRoundTrip(t *testing.T) {
	p := newTestProtector(t)

	plaintext := []byte{0x01, 0x02, 0x03}
	blob, err := p.Protect(plaintext)
	if err != nil {
		t.Fatalf("Protect: %v", err)
	}
	if bytes.Contains(blob, plaintext) {
		t.Fatal("protected blob contains plaintext")
	}

	got, err := p.Unprotect(blob)
	if err != nil {
		t.Fatalf("Unprotect: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch: got %v want %v", got, plaintext)
	}
}

func TestAEADRejectsEmptyInput(t *testing.T) {
	p := newTestProtector(t)
	if _, err := p.Protect(nil); !errors.Is(err, protect.ErrEmptyInput) {
		t.Fatalf("Protect(nil) error = %v, want ErrEmptyInput", err)
	}
	if _, err := p.Unprotect(nil); !errors.Is(err, protect.ErrEmptyInput) {
		t.Fatalf("Unprotect(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestAEADRejectsTamperedBlob(t *testing.T) {
	p := newTestProtector(t)
	blob, err := p.Protect([]byte("secret"))
	if err != nil {
		t.Fatalf("Protect: %v", err)
	}
	blob[len(blob)-1] ^= 0xff
	if _, err := p.Unprotect(blob); err == nil {
		t.Fatal("expected error for tampered blob")
	}
}

func TestAEADRejectsTruncatedBlob(t *testing.T) {
	p := newTestProtector(t)
	if _, err := p.Unprotect([]byte("short")); err == nil {
		t.Fatal("expected error for truncated blob")
	}
}

func TestAEADRejectsWrongKey(t *testing.T) {
	p := newTestProtector(t)
	blob, err := p.Protect([]byte("secret"))
	if err != nil {
		t.Fatalf("Protect: %v", err)
	}

	other, err := protect.NewAEAD(bytes.Repeat([]byte{0x22}, krypto.KeySize))
	if err != nil {
		t.Fatalf("NewAEAD: %v", err)
	}
	if _, err := other.Unprotect(blob); err == nil {
		t.Fatal("expected error when unprotecting under a different key")
	}
}

func TestNewAEADRequires32ByteKey(t *testing.T) {
	if _, err := protect.NewAEAD([]byte("short")); err == nil {
		t.Fatal("expected error for short key")
	}
}

func TestLoadOrCreateKeyfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "file.key")

	first, err := protect.LoadOrCreateKeyfile(path)
	if err != nil {
		t.Fatalf("LoadOrCreateKeyfile: %v", err)
	}
	if len(first) != krypto.KeySize {
		t.Fatalf("key length = %d, want %d", len(first), krypto.KeySize)
	}

	second, err := protect.LoadOrCreateKeyfile(path)
	if err != nil {
		t.Fatalf("LoadOrCreateKeyfile (existing): %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("second load returned a different key")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat keyfile: %v", err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Fatalf("keyfile permissions too open: %o", perm)
	}
}

func TestLoadOrCreateKeyfileRejectsCorruptLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.key")
	if err := os.WriteFile(path, []byte("truncated"), 0o600); err != nil {
		t.Fatalf("seed corrupt keyfile: %v", err)
	}
	if _, err := protect.LoadOrCreateKeyfile(path); err == nil {
		t.Fatal("expected error for wrong-length keyfile")
	}
}
