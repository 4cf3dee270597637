// Package backup reads and writes passphrase-protected exports of
// keystore blobs, so a sealed key can be moved off the machine without
// depending on the platform secret store it came from.
package backup

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pirate-wallet/keystore/krypto"
)

var backupAAD = []byte("keystore.backup")

// KDFConfig records the derivation parameters inside the backup file so
// it stays readable after defaults change.
type KDFConfig struct {
	Name        string `json:"name"`
	MemoryMB    uint32 `json:"memoryMB"`
	Time        uint32 `json:"time"`
	Parallelism uint8  `json:"parallelism"`
	SaltLen     int    `json:"saltLen"`
	KeyLen      uint32 `json:"keyLen"`
}

// File is the on-disk backup format.
type File struct {
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	KDF        KDFConfig `json:"kdf"`
	Salt       string    `json:"salt"`
	Nonce      string    `json:"nonce"`
	Ciphertext string    `json:"ciphertext"`
}

// Write wraps blob under a passphrase-derived key and persists the
// backup file atomically with restrictive permissions.
func Write(path string, passphrase, blob []byte) error {
	if len(passphrase) == 0 {
		return errors.New("passphrase is required")
	}
	if len(blob) == 0 {
		return errors.New("backup blob is empty")
	}

	params := krypto.DefaultArgon2Params()
	salt, err := krypto.NewRandomSalt(params.SaltLen)
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	key, err := krypto.DeriveKeyArgon2id(passphrase, salt, params)
	if err != nil {
		return fmt.Errorf("derive backup key: %w", err)
	}

	nonce, ciphertext, err := krypto.EncryptAESGCM(key, blob, backupAAD)
	if err != nil {
		return fmt.Errorf("wrap blob: %w", err)
	}

	file := File{
		Version:   1,
		CreatedAt: time.Now().UTC(),
		KDF: KDFConfig{
			Name:        "argon2id",
			MemoryMB:    params.MemoryMB,
			Time:        params.Time,
			Parallelism: params.Parallelism,
			SaltLen:     params.SaltLen,
			KeyLen:      params.KeyLen,
		},
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return writeFileAtomic(path, data)
}

// Read loads a backup file and unwraps the blob using the passphrase.
func Read(path string, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, errors.New("passphrase is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	if file.Version != 1 {
		return nil, fmt.Errorf("unsupported backup version %d", file.Version)
	}
	if file.KDF.Name != "argon2id" {
		return nil, fmt.Errorf("unsupported kdf %q", file.KDF.Name)
	}

	salt, err := base64.StdEncoding.DecodeString(file.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(file.Nonce)
	if err != nil {
		return nil, fmt.Errorf("decode nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(file.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}

	key, err := krypto.DeriveKeyArgon2id(passphrase, salt, krypto.Argon2Params{
		MemoryMB:    file.KDF.MemoryMB,
		Time:        file.KDF.Time,
		Parallelism: file.KDF.Parallelism,
		SaltLen:     file.KDF.SaltLen,
		KeyLen:      file.KDF.KeyLen,
	})
	if err != nil {
		return nil, fmt.Errorf("derive backup key: %w", err)
	}

	blob, err := krypto.DecryptAESGCM(key, nonce, ciphertext, backupAAD)
	if err != nil {
		return nil, fmt.Errorf("unwrap blob (wrong passphrase or corrupted backup): %w", err)
	}
	return blob, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "backup-*.json")
	if err != nil {
		return fmt.Errorf("create temp backup: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp backup: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp backup: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace backup: %w", err)
	}
	return nil
}
