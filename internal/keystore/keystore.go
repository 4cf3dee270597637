// Package keystore is the uniform secure key vault: it validates inputs,
// dispatches to the active platform backend, and maps backend failures to
// the stable error codes existing callers depend on. It holds no secret
// state of its own; everything durable lives in the backend.
package keystore

import (
	"github.com/pirate-wallet/keystore/internal/audit"
	"github.com/pirate-wallet/keystore/internal/backend"
	"github.com/pirate-wallet/keystore/internal/keyid"
)

// Defaults preserved from the shipped wallet. MasterKeyID lives in the
// same namespace as caller-chosen identifiers; the pirate_wallet_ prefix
// is reserved and documented so wallet code never picks a colliding id.
const (
	DefaultService        = backend.DefaultService
	DefaultMasterKeyID    = "pirate_wallet_master_key"
	DefaultKeyLabel       = "Pirate Wallet Key"
	DefaultMasterKeyLabel = "Pirate Wallet Master Key"
)

// Config carries the vault's namespace constants. Injected rather than
// hardcoded so tests can run against an isolated namespace.
type Config struct {
	MasterKeyID    string
	KeyLabel       string
	MasterKeyLabel string
	// Audit, when non-nil, receives one event per operation.
	Audit *audit.Log
}

func (c Config) withDefaults() Config {
	if c.MasterKeyID == "" {
		c.MasterKeyID = DefaultMasterKeyID
	}
	if c.KeyLabel == "" {
		c.KeyLabel = DefaultKeyLabel
	}
	if c.MasterKeyLabel == "" {
		c.MasterKeyLabel = DefaultMasterKeyLabel
	}
	return c
}

// Vault is the platform-abstracted key vault facade.
type Vault struct {
	backend backend.Backend
	cfg     Config
}

// New returns a Vault over the given backend.
func New(b backend.Backend, cfg Config) *Vault {
	return &Vault{backend: b, cfg: cfg.withDefaults()}
}

// StoreKey durably persists an already-encrypted key blob under id,
// overwriting any prior value.
func (v *Vault) StoreKey(id string, blob []byte) error {
	if id == "" {
		return newError(CodeInvalidArgument, "keyId required")
	}
	if err := v.backend.Store(id, blob, v.cfg.KeyLabel); err != nil {
		v.record("storeKey", id, err)
		return wrapError(CodeKeystore, "store key", err)
	}
	v.record("storeKey", id, nil)
	return nil
}

// RetrieveKey returns the blob stored under id, or (nil, nil) when no
// value exists. Unknown keys are a normal outcome, not a failure.
func (v *Vault) RetrieveKey(id string) ([]byte, error) {
	if id == "" {
		return nil, newError(CodeInvalidArgument, "keyId required")
	}
	blob, err := v.backend.Retrieve(id)
	if err != nil {
		v.record("retrieveKey", id, err)
		return nil, wrapError(CodeKeystore, "retrieve key", err)
	}
	v.record("retrieveKey", id, nil)
	return blob, nil
}

// DeleteKey removes the value stored under id. Deleting an absent id
// succeeds.
func (v *Vault) DeleteKey(id string) error {
	if id == "" {
		return newError(CodeInvalidArgument, "keyId required")
	}
	if err := v.backend.Delete(id); err != nil {
		v.record("deleteKey", id, err)
		return wrapError(CodeKeystore, "delete key", err)
	}
	v.record("deleteKey", id, nil)
	return nil
}

// KeyExists reports whether a value is stored under id.
func (v *Vault) KeyExists(id string) (bool, error) {
	if id == "" {
		return false, newError(CodeInvalidArgument, "keyId required")
	}
	exists, err := v.backend.Exists(id)
	if err != nil {
		v.record("keyExists", id, err)
		return false, wrapError(CodeKeystore, "check key", err)
	}
	v.record("keyExists", id, nil)
	return exists, nil
}

// SealMasterKey stores the wallet's master key blob under the reserved
// identifier. Same mechanism as StoreKey, distinct failure code: callers
// tell "failed to protect the master key" apart from an arbitrary key.
func (v *Vault) SealMasterKey(blob []byte) error {
	if err := v.backend.Store(v.cfg.MasterKeyID, blob, v.cfg.MasterKeyLabel); err != nil {
		v.record("sealMasterKey", v.cfg.MasterKeyID, err)
		return wrapError(CodeSeal, "seal master key", err)
	}
	v.record("sealMasterKey", v.cfg.MasterKeyID, nil)
	return nil
}

// UnsealMasterKey returns the sealed master key, or (nil, nil) when none
// was sealed. The sealed argument is required by the wire contract but
// not interpreted: the master key is always looked up by its reserved
// identifier, so the operation behaves identically on every backend.
func (v *Vault) UnsealMasterKey(sealed []byte) ([]byte, error) {
	if sealed == nil {
		return nil, newError(CodeInvalidArgument, "sealedKey required")
	}
	blob, err := v.backend.Retrieve(v.cfg.MasterKeyID)
	if err != nil {
		v.record("unsealMasterKey", v.cfg.MasterKeyID, err)
		return nil, wrapError(CodeUnseal, "unseal master key", err)
	}
	v.record("unsealMasterKey", v.cfg.MasterKeyID, nil)
	return blob, nil
}

// record appends an audit event. Auditing is best effort: a failing or
// absent audit log never fails the operation itself.
func (v *Vault) record(op, id string, opErr error) {
	if v.cfg.Audit == nil {
		return
	}
	outcome, detail := "ok", ""
	if opErr != nil {
		outcome = "error"
		detail = opErr.Error()
	}
	_ = v.cfg.Audit.Record(op, keyid.Encode(id), outcome, detail)
}
