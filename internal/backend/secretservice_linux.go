//go:build linux

package backend

import (
	"encoding/base64"
	"fmt"

	dbus "github.com/keybase/dbus"
	"github.com/keybase/go-keychain/secretservice"

	"github.com/pirate-wallet/keystore/internal/keyid"
)

const (
	attrKeyID  = "key_id"
	attrSchema = "xdg:schema"
)

// SecretStore persists blobs in the freedesktop Secret Service (GNOME
// Keyring, KWallet) over D-Bus. Items are scoped by the schema attribute
// plus key_id = encoded identifier; the daemon's own serialization
// handles concurrent access.
//
// The Secret Service item API is string-oriented, so binary payloads are
// base64-wrapped on the way in and unwrapped on the way out. That
// encoding never leaks past this type.
type SecretStore struct {
	schema string
}

// NewSecretStore returns a Secret Service backend scoped to the given
// schema name.
func NewSecretStore(schema string) *SecretStore {
	return &SecretStore{schema: schema}
}

func (s *SecretStore) attributes(id string) map[string]string {
	return map[string]string{
		attrSchema: s.schema,
		attrKeyID:  keyid.Encode(id),
	}
}

// openSession dials the daemon and negotiates a DH-encrypted transport
// session. Callers must close both via the returned func on every path.
func openSession(op string) (*secretservice.SecretService, *secretservice.Session, func(), error) {
	srv, err := secretservice.NewService()
	if err != nil {
		return nil, nil, nil, unavailable(op, fmt.Errorf("connect to secret service: %w", err))
	}
	session, err := srv.OpenSession(secretservice.AuthenticationDHAES)
	if err != nil {
		return nil, nil, nil, unavailable(op, fmt.Errorf("open secret service session: %w", err))
	}
	return srv, session, func() { srv.CloseSession(session) }, nil
}

func (s *SecretStore) Store(id string, data []byte, label string) error {
	if len(data) == 0 {
		return protection("store", ErrEmptyData)
	}

	srv, session, done, err := openSession("store")
	if err != nil {
		return err
	}
	defer done()

	if err := srv.Unlock([]dbus.ObjectPath{secretservice.DefaultCollection}); err != nil {
		return unavailable("store", fmt.Errorf("unlock collection: %w", err))
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	secret, err := session.NewSecret([]byte(encoded))
	if err != nil {
		return protection("store", fmt.Errorf("wrap secret for transport: %w", err))
	}

	props := secretservice.NewSecretProperties(label, s.attributes(id))
	if _, err := srv.CreateItem(secretservice.DefaultCollection, props, secret, secretservice.ReplaceBehaviorReplace); err != nil {
		return unavailable("store", fmt.Errorf("create item: %w", err))
	}
	return nil
}

func (s *SecretStore) Retrieve(id string) ([]byte, error) {
	srv, session, done, err := openSession("retrieve")
	if err != nil {
		return nil, err
	}
	defer done()

	items, err := srv.SearchCollection(secretservice.DefaultCollection, s.attributes(id))
	if err != nil {
		return nil, unavailable("retrieve", fmt.Errorf("search collection: %w", err))
	}
	if len(items) == 0 {
		return nil, nil
	}

	if err := srv.Unlock(items); err != nil {
		return nil, unavailable("retrieve", fmt.Errorf("unlock item: %w", err))
	}

	encoded, err := srv.GetSecret(items[0], *session)
	if err != nil {
		return nil, unavailable("retrieve", fmt.Errorf("read secret: %w", err))
	}

	data, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return nil, protection("retrieve", fmt.Errorf("decode stored payload: %w", err))
	}
	return data, nil
}

func (s *SecretStore) Delete(id string) error {
	srv, _, done, err := openSession("delete")
	if err != nil {
		return err
	}
	defer done()

	items, err := srv.SearchCollection(secretservice.DefaultCollection, s.attributes(id))
	if err != nil {
		return unavailable("delete", fmt.Errorf("search collection: %w", err))
	}

	// Absent is success; only live items need clearing.
	for _, item := range items {
		if err := srv.DeleteItem(item); err != nil {
			return unavailable("delete", fmt.Errorf("delete item: %w", err))
		}
	}
	return nil
}

func (s *SecretStore) Exists(id string) (bool, error) {
	srv, _, done, err := openSession("exists")
	if err != nil {
		return false, err
	}
	defer done()

	items, err := srv.SearchCollection(secretservice.DefaultCollection, s.attributes(id))
	if err != nil {
		return false, unavailable("exists", fmt.Errorf("search collection: %w", err))
	}
	return len(items) > 0, nil
}
