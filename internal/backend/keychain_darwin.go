//go:build darwin

package backend

import (
	"fmt"

	keychain "github.com/keybase/go-keychain"

	"github.com/pirate-wallet/keystore/internal/keyid"
)

// Keychain persists blobs as generic passwords in the macOS Keychain,
// device-local and never synced. The account field carries the encoded
// identifier so arbitrary identifier bytes can never confuse the
// Keychain query.
type Keychain struct {
	service string
}

// NewKeychain returns a Keychain backend under the given service name.
func NewKeychain(service string) *Keychain {
	return &Keychain{service: service}
}

func (k *Keychain) Store(id string, data []byte, label string) error {
	if len(data) == 0 {
		return protection("store", ErrEmptyData)
	}

	account := keyid.Encode(id)
	item := keychain.NewGenericPassword(k.service, account, label, data, "")
	item.SetSynchronizable(keychain.SynchronizableNo)
	item.SetAccessible(keychain.AccessibleWhenUnlockedThisDeviceOnly)

	if err := keychain.AddItem(item); err != nil {
		if err != keychain.ErrorDuplicateItem {
			return unavailable("store", fmt.Errorf("add keychain item: %w", err))
		}
		query := keychain.NewGenericPassword(k.service, account, "", nil, "")
		update := keychain.NewItem()
		update.SetData(data)
		if err := keychain.UpdateItem(query, update); err != nil {
			return unavailable("store", fmt.Errorf("update keychain item: %w", err))
		}
	}
	return nil
}

func (k *Keychain) Retrieve(id string) ([]byte, error) {
	data, err := keychain.GetGenericPassword(k.service, keyid.Encode(id), "", "")
	if err != nil {
		return nil, unavailable("retrieve", fmt.Errorf("read keychain item: %w", err))
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

func (k *Keychain) Delete(id string) error {
	err := keychain.DeleteGenericPasswordItem(k.service, keyid.Encode(id))
	if err != nil && err != keychain.ErrorItemNotFound {
		return unavailable("delete", fmt.Errorf("delete keychain item: %w", err))
	}
	return nil
}

func (k *Keychain) Exists(id string) (bool, error) {
	data, err := keychain.GetGenericPassword(k.service, keyid.Encode(id), "", "")
	if err != nil {
		return false, unavailable("exists", fmt.Errorf("query keychain item: %w", err))
	}
	return len(data) > 0, nil
}
